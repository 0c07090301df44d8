package game

import "tazar/hex"

const (
	// Radius of the Hex Field Small map.
	Radius    = 4
	boardSize = 2*Radius + 1
)

// Board stores one Piece per cell of a radius-4 hexagon in a square array
// indexed by (r, q). Corners of the square are off-board.
type Board struct {
	cells [boardSize * boardSize]Piece
}

func index(p hex.Pos) (int, bool) {
	if !p.Valid() || p.Length() > Radius {
		return 0, false
	}
	return (p.R+Radius)*boardSize + (p.Q + Radius), true
}

// At returns the piece at p, or an off-board piece.
func (b *Board) At(p hex.Pos) Piece {
	i, ok := index(p)
	if !ok {
		return offBoard
	}
	return b.cells[i]
}

// OnBoard reports whether p is a cell of the map.
func (b *Board) OnBoard(p hex.Pos) bool {
	return b.At(p).Kind != OffBoard
}

func (b *Board) set(p hex.Pos, piece Piece) {
	i, ok := index(p)
	if !ok {
		panic("setting an off-board cell " + p.String())
	}
	b.cells[i] = piece
}

// Cells calls fn for every on-board cell, r outer and q inner, stopping early
// if fn returns false.
func (b *Board) Cells(fn func(hex.Pos, Piece) bool) {
	for r := -Radius; r <= Radius; r++ {
		for q := -Radius; q <= Radius; q++ {
			p := hex.New(q, r)
			piece := b.At(p)
			if piece.Kind == OffBoard {
				continue
			}
			if !fn(p, piece) {
				return
			}
		}
	}
}

// Count returns how many pieces of the kind a player has on the board.
func (b *Board) Count(player Player, kind Kind) int {
	n := 0
	for _, c := range b.cells {
		if c.Player == player && c.Kind == kind {
			n++
		}
	}
	return n
}

func (b *Board) clear() {
	for i := range b.cells {
		b.cells[i] = offBoard
	}
	for r := -Radius; r <= Radius; r++ {
		for q := -Radius; q <= Radius; q++ {
			if p := hex.New(q, r); p.Length() <= Radius {
				b.set(p, emptyPiece)
			}
		}
	}
}

type placement struct {
	step hex.Pos
	kind Kind
}

// Each army is placed as a walk starting from its crown.
var (
	redArmy = []placement{
		{hex.Origin, Crown},
		{hex.RightUp, Bow},
		{hex.RightUp, Horse},
		{hex.Right, Pike},
		{hex.LeftDown, Pike},
		{hex.LeftDown, Bow},
		{hex.Right, Pike},
		{hex.LeftDown, Pike},
		{hex.Left, Bow},
		{hex.RightDown, Horse},
		{hex.Right, Pike},
	}
	blueArmy = []placement{
		{hex.Origin, Crown},
		{hex.LeftUp, Bow},
		{hex.LeftUp, Horse},
		{hex.Left, Pike},
		{hex.RightDown, Pike},
		{hex.RightDown, Bow},
		{hex.Left, Pike},
		{hex.RightDown, Pike},
		{hex.Right, Bow},
		{hex.LeftDown, Horse},
		{hex.Left, Pike},
	}
)

var (
	redCrownStart  = hex.Pos{Q: -4, R: 0, S: 4}
	blueCrownStart = hex.Pos{Q: 4, R: 0, S: -4}
)

// layout fills the board with both attrition armies, numbering pieces from 1.
func (b *Board) layout() {
	b.clear()
	id := uint8(1)
	for _, side := range []struct {
		player Player
		start  hex.Pos
		army   []placement
	}{
		{Red, redCrownStart, redArmy},
		{Blue, blueCrownStart, blueArmy},
	} {
		p := side.start
		for _, pl := range side.army {
			p = p.Add(pl.step)
			b.set(p, Piece{Kind: pl.kind, Player: side.player, ID: id})
			id++
		}
	}
}
