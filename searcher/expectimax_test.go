package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/hex"
)

func TestExpectimaxDepthZero(t *testing.T) {
	g := newPosition(t, game.Red, game.Placement{Pos: hex.Origin, Kind: game.Horse, Owner: game.Red})
	res := NewExpectimax(0).Search(g)
	require.Equal(t, game.ValueForRed(&g), res.Value)
	require.Equal(t, game.EndTurn, res.Best)
	require.Equal(t, 1, res.Nodes)
}

func TestExpectimaxFindsTheWin(t *testing.T) {
	t.Run("red maximizes", func(t *testing.T) {
		g, kill := crownInReach(t)
		res := NewExpectimax(1).Search(g)
		require.Equal(t, kill, res.Best)
		require.Equal(t, 1.0, res.Value)
		require.Equal(t, res.Commands[res.BestIndex], res.Best)
	})

	t.Run("blue minimizes", func(t *testing.T) {
		g := newPosition(t, game.Blue, game.Placement{Pos: hex.New(-3, 0), Kind: game.Pike, Owner: game.Blue})
		res := NewExpectimax(1).Search(g)
		require.Equal(t, game.Command{Kind: game.CommandMove, Piece: hex.New(-3, 0), Target: redCrown.Pos}, res.Best)
		require.Equal(t, -1.0, res.Value)
	})
}

func TestExpectimaxChance(t *testing.T) {
	bow := hex.New(2, 0)
	g := newPosition(t, game.Red, game.Placement{Pos: bow, Kind: game.Bow, Owner: game.Red})
	volley := game.Command{Kind: game.CommandVolley, Piece: bow, Target: blueCrown.Pos}

	res := NewExpectimax(1).Search(g)
	v := res.Values[indexOf(t, res.Commands, volley)]

	miss := g
	miss.Apply(game.Red, volley, game.VolleyMiss)
	require.Equal(t, 1.0, v.Hit)
	require.InDelta(t, game.ValueForRed(&miss), v.Miss, 1e-12)
	require.InDelta(t, game.HitProbability*v.Hit+(1-game.HitProbability)*v.Miss, v.Value, 1e-12)

	end := res.Values[0]
	require.Equal(t, end.Value, end.Hit)
	require.Equal(t, end.Value, end.Miss)
}

func TestExpectimaxMatchesReference(t *testing.T) {
	t.Run("opening at depth three", func(t *testing.T) {
		g := newOpening(t)
		res := NewExpectimax(3).Search(g)
		require.InDelta(t, reference(g, 3), res.Value, 1e-9)
	})

	t.Run("random positions at depth two", func(t *testing.T) {
		e := NewExpectimax(2)
		for _, g := range randomPositions(t, 21, 6) {
			res := e.Search(g)
			require.InDelta(t, reference(g, 2), res.Value, 1e-9)
			require.InDelta(t, res.Value, res.Values[res.BestIndex].Value, 1e-12)
		}
	})
}

func TestExpectimaxRootCommands(t *testing.T) {
	e := NewExpectimax(3)
	for i, g := range randomPositions(t, 5, 60) {
		res := e.Search(g)
		require.Len(t, res.Values, len(res.Commands))
		for k, cmd := range res.Commands {
			exact := referenceCommand(g, cmd, 3)
			require.InDelta(t, exact.Value, res.Values[k].Value, 1e-9, "position %d command %s", i, cmd)
			require.InDelta(t, exact.Hit, res.Values[k].Hit, 1e-9, "position %d command %s", i, cmd)
			require.InDelta(t, exact.Miss, res.Values[k].Miss, 1e-9, "position %d command %s", i, cmd)
		}
		require.InDelta(t, res.Value, referenceCommand(g, res.Best, 3).Value, 1e-9,
			"position %d: %s does not attain the root value", i, res.Best)
	}
}

func TestExpectimaxIsRepeatable(t *testing.T) {
	g := randomPositions(t, 8, 1)[0]
	before := g
	e := NewExpectimax(2)
	first := e.Search(g)
	second := e.Search(g)
	require.Equal(t, first, second)
	require.Equal(t, before, g)
}

func TestExpectimaxMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	e := NewExpectimax(DifficultyEasy.Depth(), WithExpectimaxMetrics(collector))
	res := e.Search(newOpening(t))
	m := collector.Complete(res.Value)
	require.Equal(t, "expectimax", m.Engine)
	require.Equal(t, DepthEasy, m.Depth)
	require.Equal(t, res.Nodes, m.Nodes)
	require.Equal(t, res.Prunes, m.Prunes)
}

func TestDifficulty(t *testing.T) {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		parsed, err := ParseDifficulty(d.String())
		require.NoError(t, err)
		require.Equal(t, d, parsed)
	}
	require.Equal(t, []int{3, 4, 5}, []int{DifficultyEasy.Depth(), DifficultyMedium.Depth(), DifficultyHard.Depth()})

	_, err := ParseDifficulty("brutal")
	require.ErrorIs(t, err, ErrUnknownDifficulty)
}
