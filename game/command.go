package game

import (
	"fmt"

	"tazar/hex"
)

type OrderKind uint8

const (
	OrderNone OrderKind = iota
	OrderMove
	OrderVolley
	OrderMuster
)

// Order is a single action issued within an activation.
type Order struct {
	Kind   OrderKind
	Target hex.Pos
}

// Activation binds one piece for up to two orders. PieceID 0 means unbound.
type Activation struct {
	PieceID    uint8
	Orders     [2]Order
	OrderCount int
}

// Turn is the per-turn bookkeeping. A turn ends once ActivationIndex reaches
// 2.
type Turn struct {
	Player          Player
	Activations     [2]Activation
	ActivationIndex int
}

type CommandKind uint8

const (
	CommandNone CommandKind = iota
	CommandMove
	CommandVolley
	CommandMuster
	CommandEndTurn
)

func (k CommandKind) String() string {
	switch k {
	case CommandMove:
		return "move"
	case CommandVolley:
		return "volley"
	case CommandMuster:
		return "muster"
	case CommandEndTurn:
		return "end-turn"
	default:
		return "none"
	}
}

// Command is a player request. Piece and Target are unused for End Turn, and
// Muster names the kind to produce for a Muster command.
type Command struct {
	Kind   CommandKind
	Piece  hex.Pos
	Target hex.Pos
	Muster Kind
}

// EndTurn is the one command that is always legal.
var EndTurn = Command{Kind: CommandEndTurn}

func (c Command) String() string {
	switch c.Kind {
	case CommandEndTurn, CommandNone:
		return c.Kind.String()
	default:
		return fmt.Sprintf("%s %s->%s", c.Kind, c.Piece, c.Target)
	}
}

// VolleyResult tells Apply how to resolve a volley.
type VolleyResult uint8

const (
	VolleyRoll VolleyResult = iota
	VolleyHit
	VolleyMiss
)

func (v VolleyResult) String() string {
	switch v {
	case VolleyHit:
		return "hit"
	case VolleyMiss:
		return "miss"
	default:
		return "roll"
	}
}

type cellRecord struct {
	pos   hex.Pos
	piece Piece
}

// Undo restores the game to its state before one Apply. The zero value undoes
// nothing.
type Undo struct {
	turn    Turn
	cells   [2]cellRecord
	count   int
	applied bool
}

// Applied reports whether the command that produced the token changed the
// game.
func (u Undo) Applied() bool {
	return u.applied
}

func (u *Undo) record(pos hex.Pos, piece Piece) {
	u.cells[u.count] = cellRecord{pos: pos, piece: piece}
	u.count++
}
