package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tazar/hex"
)

var (
	redCrown  = Piece{Kind: Crown, Player: Red}
	blueCrown = Piece{Kind: Crown, Player: Blue}
)

type placed struct {
	pos   hex.Pos
	piece Piece
}

// newTestGame builds an in-progress game holding only the given pieces, with
// player to move on a fresh activation.
func newTestGame(t *testing.T, player Player, pieces ...placed) *Game {
	t.Helper()
	g := &Game{
		Mode:   ModeAttrition,
		Map:    MapHexFieldSmall,
		Status: StatusInProgress,
		Turn:   Turn{Player: player},
	}
	g.Board.clear()
	for i, p := range pieces {
		require.True(t, g.Board.OnBoard(p.pos), "test piece %d placed off the board", i)
		p.piece.ID = uint8(i + 1)
		g.Board.set(p.pos, p.piece)
	}
	return g
}

// withCrowns adds both crowns in their corners so that a game does not end as
// soon as a command is applied.
func withCrowns(pieces ...placed) []placed {
	return append([]placed{
		{redCrownStart, redCrown},
		{blueCrownStart, blueCrown},
	}, pieces...)
}

func countKind(cmds []Command, kind CommandKind) int {
	n := 0
	for _, c := range cmds {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func commandsFrom(cmds []Command, from hex.Pos) []Command {
	var out []Command
	for _, c := range cmds {
		if c.Kind != CommandEndTurn && c.Piece == from {
			out = append(out, c)
		}
	}
	return out
}
