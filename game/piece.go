package game

type Player uint8

const (
	None Player = iota
	Red
	Blue
)

// Opponent returns the other side. None has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		return None
	}
}

func (p Player) String() string {
	switch p {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return "none"
	}
}

// Kind is what a board cell holds. The zero value marks a position that is
// not part of the map.
type Kind uint8

const (
	OffBoard Kind = iota
	Empty
	Crown
	Pike
	Horse
	Bow
)

var kindNames = [...]string{"off-board", "empty", "crown", "pike", "horse", "bow"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Movement is the number of steps a piece may walk in one move order.
func (k Kind) Movement() int {
	switch k {
	case Crown:
		return 1
	case Pike, Bow:
		return 2
	case Horse:
		return 4
	default:
		return 0
	}
}

// Strength decides what a piece can capture by moving. Empty and off-board
// cells have strength -1.
func (k Kind) Strength() int {
	switch k {
	case Crown:
		return 0
	case Pike:
		return 3
	case Horse:
		return 2
	case Bow:
		return 1
	default:
		return -1
	}
}

// MaxKill is the strongest piece this kind may capture by moving onto it.
// A Horse may charge anything.
func (k Kind) MaxKill() int {
	if k == Horse {
		return Pike.Strength()
	}
	return k.Strength() - 1
}

// HasAction reports whether the kind has a second, non-move order.
func (k Kind) HasAction() bool {
	return k == Bow || k == Crown
}

// Piece is the content of one cell. ID is unique for the lifetime of a game
// and zero for empty and off-board cells.
type Piece struct {
	Kind   Kind
	Player Player
	ID     uint8
}

var (
	offBoard   = Piece{Kind: OffBoard}
	emptyPiece = Piece{Kind: Empty}
)

// Occupied reports whether the cell holds a piece.
func (p Piece) Occupied() bool {
	return p.Kind > Empty
}
