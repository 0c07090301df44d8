package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/hex"
	"tazar/searcher"
)

// crownInReach has a Red pike next to the Blue crown on Red's last
// activation, while a Blue pike threatens the Red crown.
func crownInReach(t *testing.T) (game.Game, game.Command) {
	t.Helper()
	g, err := game.NewFromPlacements(game.Red, []game.Placement{
		{Pos: hex.New(-4, 0), Kind: game.Crown, Owner: game.Red},
		{Pos: hex.New(4, 0), Kind: game.Crown, Owner: game.Blue},
		{Pos: hex.New(3, 0), Kind: game.Pike, Owner: game.Red},
		{Pos: hex.New(0, -3), Kind: game.Horse, Owner: game.Red},
		{Pos: hex.New(-3, 0), Kind: game.Pike, Owner: game.Blue},
	})
	require.NoError(t, err)
	u := g.Apply(game.Red, game.Command{Kind: game.CommandMove, Piece: hex.New(0, -3), Target: hex.New(1, -3)}, game.VolleyMiss)
	require.True(t, u.Applied())
	return *g, game.Command{Kind: game.CommandMove, Piece: hex.New(3, 0), Target: hex.New(4, 0)}
}

func TestNew(t *testing.T) {
	tests := []struct {
		config metrics.AgentConfig
		engine string
	}{
		{metrics.AgentConfig{Kind: KindExpectimax, Depth: 1}, "expectimax"},
		{metrics.AgentConfig{Kind: KindMCTS, Iterations: 200, RolloutDepth: 20}, "mcts"},
		{metrics.AgentConfig{Kind: KindHybrid, Depth: 1, Iterations: 100}, "hybrid"},
		{metrics.AgentConfig{Kind: KindTraining, Iterations: 200, RolloutDepth: 20}, "mcts"},
		{metrics.AgentConfig{Kind: KindFlat, Iterations: 200, RolloutDepth: 20}, "flat"},
	}
	for _, tt := range tests {
		t.Run(tt.config.Kind+" takes the crown", func(t *testing.T) {
			a, err := New(tt.config, game.NewRandom(1))
			require.NoError(t, err)

			g, kill := crownInReach(t)
			cmd, m := a.FindCommand(g)
			require.Equal(t, kill, cmd)
			require.Equal(t, tt.engine, m.Engine)
		})
	}

	t.Run("heuristic plays a legal command", func(t *testing.T) {
		a, err := New(metrics.AgentConfig{Kind: KindHeuristic}, game.NewRandom(1))
		require.NoError(t, err)
		g, _ := crownInReach(t)
		cmd, m := a.FindCommand(g)
		require.Contains(t, g.ValidCommands(), cmd)
		require.Equal(t, KindHeuristic, m.Engine)
	})

	t.Run("widening reaches the tree search", func(t *testing.T) {
		a, err := New(metrics.AgentConfig{Kind: KindMCTS, Iterations: 10, WideningK: 3, WideningExp: 0.25}, game.NewRandom(1))
		require.NoError(t, err)
		k, alpha := a.(*evaluationAgent).mcts.Widening()
		require.Equal(t, 3.0, k)
		require.Equal(t, 0.25, alpha)

		a, err = New(metrics.AgentConfig{Kind: KindTraining, Iterations: 10}, game.NewRandom(1))
		require.NoError(t, err)
		k, alpha = a.(*trainingAgent).mcts.Widening()
		require.Equal(t, searcher.DefaultWideningK, k)
		require.Equal(t, searcher.DefaultWideningExp, alpha)
	})

	t.Run("unknown kinds are rejected", func(t *testing.T) {
		_, err := New(metrics.AgentConfig{Kind: "oracle"}, nil)
		require.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestExpectimaxAgentValue(t *testing.T) {
	g, err := game.NewFromPlacements(game.Blue, []game.Placement{
		{Pos: hex.New(-4, 0), Kind: game.Crown, Owner: game.Red},
		{Pos: hex.New(4, 0), Kind: game.Crown, Owner: game.Blue},
		{Pos: hex.New(-3, 0), Kind: game.Pike, Owner: game.Blue},
	})
	require.NoError(t, err)

	cmd, m := NewDifficultyAgent(searcher.DifficultyEasy).FindCommand(*g)
	require.Equal(t, game.CommandMove, cmd.Kind)
	require.Equal(t, searcher.Win, m.Value, "values are reported for the player to move")
	require.Equal(t, searcher.DepthEasy, m.Depth)
}

func TestAdjustTemperature(t *testing.T) {
	policy := []searcher.Visit{
		{Command: game.EndTurn, Visits: 1},
		{Command: game.Command{Kind: game.CommandMove}, Visits: 0},
		{Command: game.Command{Kind: game.CommandVolley}, Visits: 3},
	}

	t.Run("temperature one keeps proportions", func(t *testing.T) {
		got := adjustTemperature(policy, 1)
		require.InDeltaSlice(t, []float64{0.25, 0, 0.75}, got, 1e-12)
	})

	t.Run("low temperatures sharpen", func(t *testing.T) {
		got := adjustTemperature(policy, 0.5)
		require.InDeltaSlice(t, []float64{0.1, 0, 0.9}, got, 1e-12)
	})

	t.Run("nothing visited", func(t *testing.T) {
		require.Nil(t, adjustTemperature([]searcher.Visit{{Command: game.EndTurn}}, 1))
	})
}
