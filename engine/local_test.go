package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/hex"
	"tazar/searcher/agent"
)

type scriptedAgent struct {
	cmd game.Command
}

func (a scriptedAgent) FindCommand(g game.Game) (game.Command, metrics.SearchMetric) {
	return a.cmd, metrics.SearchMetric{Engine: "scripted"}
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("heuristic self-play respects the turn cap", func(t *testing.T) {
		for seed := uint64(1); seed <= 5; seed++ {
			e, err := NewLocalEngine(
				agent.NewHeuristicAgent(game.NewRandom(seed)),
				agent.NewHeuristicAgent(game.NewRandom(seed+100)),
				WithRandom(game.NewRandom(seed+200)),
				WithMaxTurns(120),
			)
			require.NoError(t, err)

			winner, gm, moves, err := e.Run(context.Background())
			require.NoError(t, err)
			require.Equal(t, game.Red, gm.StartingPlayer)
			require.Equal(t, winner, gm.Winner)
			require.Len(t, moves, gm.TotalMoves)
			require.LessOrEqual(t, gm.TotalMoves, 120)
			require.LessOrEqual(t, gm.TotalTurns, gm.TotalMoves)

			g := e.Game()
			if g.Over() {
				require.NotEqual(t, game.None, winner)
			} else {
				require.Equal(t, game.None, winner)
				require.Equal(t, 120, gm.TotalMoves)
			}
			for i, m := range moves {
				require.Equal(t, i+1, m.Step)
			}
		}
	})

	t.Run("illegal commands end the turn", func(t *testing.T) {
		muster := scriptedAgent{cmd: game.Command{Kind: game.CommandMuster}}
		e, err := NewLocalEngine(muster, muster, WithMaxTurns(4))
		require.NoError(t, err)

		_, gm, moves, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, 4, gm.TotalMoves)
		require.Equal(t, 4, gm.TotalTurns)
		for _, m := range moves {
			require.Equal(t, game.EndTurn, m.Command)
		}
		require.Equal(t, game.Red, e.Game().Turn.Player)
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		e, err := NewLocalEngine(scriptedAgent{cmd: game.EndTurn}, scriptedAgent{cmd: game.EndTurn})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, moves, err := e.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, moves)
	})

	t.Run("a custom start position is played out", func(t *testing.T) {
		g, err := game.NewFromPlacements(game.Red, []game.Placement{
			{Pos: hex.New(-4, 0), Kind: game.Crown, Owner: game.Red},
			{Pos: hex.New(4, 0), Kind: game.Crown, Owner: game.Blue},
			{Pos: hex.New(3, 0), Kind: game.Pike, Owner: game.Red},
		})
		require.NoError(t, err)
		kill := game.Command{Kind: game.CommandMove, Piece: hex.New(3, 0), Target: hex.New(4, 0)}

		e, err := NewLocalEngine(scriptedAgent{cmd: kill}, scriptedAgent{cmd: game.EndTurn}, WithGame(*g))
		require.NoError(t, err)
		winner, gm, _, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, game.Red, winner)
		require.Equal(t, 1, gm.TotalMoves)
		require.Equal(t, 1, gm.TotalTurns)
	})
}

func TestThink(t *testing.T) {
	g, err := game.New(game.ModeAttrition, game.MapHexFieldSmall)
	require.NoError(t, err)

	d := <-Think(agent.NewExpectimaxAgent(1), *g)
	require.Contains(t, g.ValidCommands(), d.Command)
	require.Equal(t, "expectimax", d.Metric.Engine)
}
