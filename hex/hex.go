// Package hex implements axial hex-grid coordinates.
package hex

import "fmt"

// Pos is an axial (cube) hex position. Valid positions satisfy Q+R+S == 0.
type Pos struct {
	Q, R, S int
}

// Offset is a doubled-offset coordinate, used for drawing the grid row by row.
type Offset struct {
	X, Y int
}

var (
	RightUp   = Pos{1, -1, 0}
	Right     = Pos{1, 0, -1}
	RightDown = Pos{0, 1, -1}
	LeftDown  = Pos{-1, 1, 0}
	Left      = Pos{-1, 0, 1}
	LeftUp    = Pos{0, -1, 1}
)

// Directions lists the six unit directions clockwise from RightUp.
var Directions = [6]Pos{RightUp, Right, RightDown, LeftDown, Left, LeftUp}

// Origin is the center cell.
var Origin = Pos{}

// New builds a position from q and r, deriving s.
func New(q, r int) Pos {
	return Pos{Q: q, R: r, S: -q - r}
}

func (p Pos) Valid() bool {
	return p.Q+p.R+p.S == 0
}

func (p Pos) Add(o Pos) Pos {
	return Pos{p.Q + o.Q, p.R + o.R, p.S + o.S}
}

func (p Pos) Sub(o Pos) Pos {
	return Pos{p.Q - o.Q, p.R - o.R, p.S - o.S}
}

// Scale multiplies each component by k.
func (p Pos) Scale(k int) Pos {
	return Pos{p.Q * k, p.R * k, p.S * k}
}

// Neighbors returns the six adjacent positions in Directions order.
func (p Pos) Neighbors() [6]Pos {
	var n [6]Pos
	for i, d := range Directions {
		n[i] = p.Add(d)
	}
	return n
}

// Length is the distance from the origin.
func (p Pos) Length() int {
	return max(abs(p.Q), abs(p.R), abs(p.S))
}

// Distance returns the number of steps between two positions.
func Distance(a, b Pos) int {
	return a.Sub(b).Length()
}

// Range returns every offset within distance n of the origin, excluding the
// origin itself, ordered with r outer and q inner.
func Range(n int) []Pos {
	offsets := make([]Pos, 0, 3*n*(n+1))
	for r := -n; r <= n; r++ {
		for q := -n; q <= n; q++ {
			p := New(q, r)
			if p == Origin || p.Length() > n {
				continue
			}
			offsets = append(offsets, p)
		}
	}
	return offsets
}

// ToOffset converts to doubled-offset coordinates.
func (p Pos) ToOffset() Offset {
	return Offset{X: 2*p.Q + p.R, Y: p.R}
}

// FromOffset converts doubled-offset coordinates back to axial. The X/Y pair
// must have matching parity.
func FromOffset(o Offset) Pos {
	q := (o.X - o.Y) / 2
	return New(q, o.Y)
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.Q, p.R, p.S)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
