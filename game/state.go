package game

import (
	"fmt"
	"strings"

	"tazar/hex"
)

// Game is the complete state of one match. It is a plain value: copying it
// takes a snapshot, and two games compare equal with == when every field does.
type Game struct {
	Board  Board
	Turn   Turn
	Status Status
	Winner Player
	Mode   Mode
	Map    Map
}

// New returns a game set up for the given mode and map.
func New(mode Mode, m Map) (*Game, error) {
	g := &Game{}
	if err := g.Init(mode, m); err != nil {
		return nil, err
	}
	return g, nil
}

// Init resets g to the starting layout.
func (g *Game) Init(mode Mode, m Map) error {
	if mode != ModeAttrition {
		return fmt.Errorf("init game: %w: %s", ErrUnsupportedMode, mode)
	}
	if m != MapHexFieldSmall {
		return fmt.Errorf("init game: %w: %s", ErrUnsupportedMap, m)
	}

	*g = Game{
		Mode:   mode,
		Map:    m,
		Status: StatusInProgress,
		Winner: None,
		Turn:   Turn{Player: Red},
	}
	g.Board.layout()
	// Red opens with a single activation.
	g.Turn.ActivationIndex = 1
	return nil
}

func (g *Game) PieceAt(p hex.Pos) Piece {
	return g.Board.At(p)
}

func (g *Game) CurrentPlayer() Player {
	return g.Turn.Player
}

func (g *Game) Over() bool {
	return g.Status == StatusOver
}

// Apply performs cmd on behalf of player and returns the token that reverts
// it. Commands that are not valid in the current state leave the game as is
// and return a zero Undo.
func (g *Game) Apply(player Player, cmd Command, result VolleyResult) Undo {
	if !g.valid(player, cmd) {
		return Undo{}
	}

	u := Undo{turn: g.Turn, applied: true}
	if cmd.Kind == CommandEndTurn {
		g.Turn.ActivationIndex = 2
		g.endTurn()
		return u
	}

	piece := g.Board.At(cmd.Piece)
	target := g.Board.At(cmd.Target)

	var order OrderKind
	switch cmd.Kind {
	case CommandMove:
		order = OrderMove
		u.record(cmd.Piece, piece)
		u.record(cmd.Target, target)
		g.Board.set(cmd.Piece, emptyPiece)
		if piece.Kind == Horse && target.Kind.Strength() >= Horse.Strength() {
			// Horse charge, both die.
			g.Board.set(cmd.Target, emptyPiece)
		} else {
			g.Board.set(cmd.Target, piece)
		}
	case CommandVolley:
		order = OrderVolley
		if result == VolleyRoll {
			result = RollVolley(DefaultRandom())
		}
		if result == VolleyHit {
			u.record(cmd.Target, target)
			g.Board.set(cmd.Target, emptyPiece)
		}
	}

	turn := &g.Turn
	if bound := turn.Activations[turn.ActivationIndex].PieceID; bound != 0 && bound != piece.ID {
		turn.ActivationIndex++
	}
	act := &turn.Activations[turn.ActivationIndex]
	act.PieceID = piece.ID
	act.Orders[act.OrderCount] = Order{Kind: order, Target: cmd.Target}
	act.OrderCount++
	if act.OrderCount >= len(act.Orders) || piece.Kind != Bow {
		turn.ActivationIndex++
	}

	g.endTurn()
	return u
}

// Undo reverts the command that produced u. Each token must be used once and
// in reverse order of application.
func (g *Game) Undo(u Undo) {
	if !u.applied {
		return
	}
	g.Turn = u.turn
	for i := u.count - 1; i >= 0; i-- {
		g.Board.set(u.cells[i].pos, u.cells[i].piece)
	}
	g.Status = StatusInProgress
	g.Winner = None
}

// endTurn hands the turn over once both activations are spent and then checks
// whether either crown has fallen.
func (g *Game) endTurn() {
	if g.Turn.ActivationIndex >= 2 {
		g.Turn = Turn{Player: g.Turn.Player.Opponent()}
	}

	red := g.Board.Count(Red, Crown)
	blue := g.Board.Count(Blue, Crown)
	switch {
	case red == 0:
		g.Status = StatusOver
		g.Winner = Blue
	case blue == 0:
		g.Status = StatusOver
		g.Winner = Red
	}
}

var pieceGlyphs = map[Kind]byte{
	Crown: 'C',
	Pike:  'P',
	Horse: 'H',
	Bow:   'B',
}

// String draws the board in doubled-offset rows, Red in upper case and Blue
// in lower case.
func (g *Game) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s to move, activation %d, %s", g.Turn.Player, g.Turn.ActivationIndex, g.Status)
	if g.Status == StatusOver {
		fmt.Fprintf(&sb, ", %s wins", g.Winner)
	}
	sb.WriteByte('\n')
	for y := -Radius; y <= Radius; y++ {
		for x := -2 * Radius; x <= 2*Radius; x++ {
			if (x-y)%2 != 0 {
				sb.WriteByte(' ')
				continue
			}
			piece := g.Board.At(hex.FromOffset(hex.Offset{X: x, Y: y}))
			switch piece.Kind {
			case OffBoard:
				sb.WriteByte(' ')
			case Empty:
				sb.WriteByte('.')
			default:
				c := pieceGlyphs[piece.Kind]
				if piece.Player == Blue {
					c += 'a' - 'A'
				}
				sb.WriteByte(c)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
