package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/hex"
)

func TestMCTSInvariants(t *testing.T) {
	t.Run("opening", func(t *testing.T) {
		m := NewMCTS(WithRandom(game.NewRandom(1)))
		g := newOpening(t)
		tree := m.Search(g, 1000)
		require.NoError(t, tree.Check())
		require.Equal(t, 1000, tree.RootVisits())

		visits := 0
		for _, v := range tree.Policy() {
			visits += v.Visits
		}
		require.Equal(t, 1000, visits)

		root := tree.nodes[rootIndex]
		require.Less(t, float64(root.children), widening(DefaultWideningK, DefaultWideningExp, root.visits)+1)
	})

	t.Run("random positions", func(t *testing.T) {
		for i, g := range randomPositions(t, 2, 4) {
			m := NewMCTS(WithRandom(game.NewRandom(uint64(i))), WithRolloutDepth(40))
			tree := m.Search(g, 300)
			require.NoError(t, tree.Check())
		}
	})

	t.Run("hybrid", func(t *testing.T) {
		for i, g := range randomPositions(t, 5, 3) {
			m := NewMCTS(WithRandom(game.NewRandom(uint64(i))), WithHybrid(1))
			tree := m.Search(g, 200)
			require.NoError(t, tree.Check())
		}
	})

	t.Run("thinking twice continues the same tree", func(t *testing.T) {
		m := NewMCTS(WithRandom(game.NewRandom(4)), WithRolloutDepth(20))
		g := newOpening(t)
		tree := m.NewTree(g)
		m.Think(tree, g, 100)
		m.Think(tree, g, 150)
		require.Equal(t, 250, tree.RootVisits())
		require.NoError(t, tree.Check())
	})
}

func TestMCTSFindsTheWin(t *testing.T) {
	g, kill := crownInReach(t)

	t.Run("rollouts", func(t *testing.T) {
		m := NewMCTS(WithRandom(game.NewRandom(1)), WithRolloutDepth(50))
		require.Equal(t, kill, m.Search(g, 400).SelectCommand())
	})

	t.Run("hybrid", func(t *testing.T) {
		m := NewMCTS(WithRandom(game.NewRandom(1)), WithHybrid(1))
		tree := m.Search(g, 200)
		require.Equal(t, kill, tree.SelectCommand())

		i := tree.nodes[rootIndex].firstChild
		require.Equal(t, kill, tree.nodes[i].command, "the winning seed is expanded first")
		require.Equal(t, NodeOver, tree.nodes[i].kind)
		require.InDelta(t, Win, tree.RootValue(), 1e-9)
	})
}

func TestHybridSeedsAreExact(t *testing.T) {
	// check compares a freshly seeded child with the exact value of its
	// position two plies deep, seen from the player who got there.
	check := func(t *testing.T, tree *Tree, i uint32, g game.Game) {
		t.Helper()
		n := &tree.nodes[i]
		exact := reference(g, 2)
		if n.scored == game.Blue {
			exact = -exact
		}
		if n.kind == NodeOver {
			require.InDelta(t, exact, n.mean(), 1e-9, "%s is not a proven result", n.command)
			return
		}
		require.False(t, saturated(exact), "%s is proven but still open", n.command)
	}

	for _, g := range randomPositions(t, 5, 40)[34:] {
		m := NewMCTS(WithRandom(game.NewRandom(3)), WithHybrid(3))
		tree := m.Search(g, 40)
		require.NoError(t, tree.Check())

		root := &tree.nodes[rootIndex]
		for c := root.firstChild; c < root.firstChild+root.children; c++ {
			n := &tree.nodes[c]
			if n.kind != NodeChance {
				next := g
				next.Apply(g.Turn.Player, n.command, game.VolleyMiss)
				check(t, tree, c, next)
				continue
			}
			for o := n.firstChild; o < n.firstChild+n.children; o++ {
				next := g
				next.Apply(g.Turn.Player, n.command, tree.nodes[o].volley)
				check(t, tree, o, next)
			}
		}
	}
}

func TestMCTSChanceNodes(t *testing.T) {
	bow := hex.New(1, 0)
	g := newPosition(t, game.Red,
		game.Placement{Pos: bow, Kind: game.Bow, Owner: game.Red},
		game.Placement{Pos: hex.New(3, 0), Kind: game.Pike, Owner: game.Blue},
	)
	m := NewMCTS(WithRandom(game.NewRandom(6)), WithRolloutDepth(30))
	tree := m.Search(g, 500)
	require.NoError(t, tree.Check())

	chances := 0
	for i := rootIndex; i < uint32(len(tree.nodes)); i++ {
		n := &tree.nodes[i]
		if n.kind != NodeChance {
			continue
		}
		chances++
		hit, miss := tree.nodes[n.firstChild], tree.nodes[n.firstChild+1]
		require.Equal(t, game.VolleyHit, hit.volley)
		require.Equal(t, game.VolleyMiss, miss.volley)
		require.Equal(t, game.HitProbability, hit.probability)
		require.InDelta(t, tree.expectation(i), n.mean(), 1e-9)
	}
	require.Positive(t, chances)
}

func TestChanceBackup(t *testing.T) {
	g, _ := crownInReach(t)
	tree := newTree(&g)
	volley := game.Command{Kind: game.CommandVolley, Piece: hex.New(3, 0), Target: blueCrown.Pos}

	tree.nodes = append(tree.nodes,
		node{kind: NodeChance, parent: rootIndex, firstChild: 3, children: 2, command: volley, scored: game.Red, probability: 1},
		node{kind: NodeOver, parent: 2, visits: 1, reward: 1, command: volley, volley: game.VolleyHit, scored: game.Red, probability: game.HitProbability},
		node{kind: NodeDecision, parent: 2, visits: 1, reward: -0.5, command: volley, volley: game.VolleyMiss, scored: game.Red, probability: 1 - game.HitProbability},
	)
	tree.nodes[rootIndex].firstChild = 2
	tree.nodes[rootIndex].children = 1

	tree.backup(2, 0, game.Red)
	want := game.HitProbability - 0.5*(1-game.HitProbability)
	require.InDelta(t, want, tree.nodes[2].reward, 1e-12)
	require.Equal(t, uint32(1), tree.nodes[2].visits)
	require.InDelta(t, want, tree.nodes[rootIndex].reward, 1e-12)

	// Blue scores the opposite way.
	tree.nodes[2].scored = game.Blue
	tree.backup(2, 0, game.Red)
	require.InDelta(t, 0.0, tree.nodes[rootIndex].reward, 1e-12)
	require.NoError(t, tree.Check())
}

func TestSelectCommand(t *testing.T) {
	g := newOpening(t)
	tree := newTree(&g)
	cmds := tree.Commands()
	require.Greater(t, len(cmds), 3)

	require.Equal(t, game.EndTurn, tree.SelectCommand(), "an empty tree ends the turn")

	tree.reserve(rootIndex)
	first := tree.nodes[rootIndex].firstChild
	for k, c := range []struct {
		cmd    game.Command
		visits uint32
	}{
		{cmds[3], 5},
		{cmds[1], 5},
		{cmds[2], 4},
	} {
		tree.nodes[first+uint32(k)] = node{kind: NodeDecision, parent: rootIndex, command: c.cmd, visits: c.visits, scored: game.Red}
	}
	tree.nodes[rootIndex].children = 3
	tree.nodes[rootIndex].visits = 14

	require.Equal(t, cmds[3], tree.SelectCommand(), "ties go to the later command")
	require.NoError(t, tree.Check())
}

func TestMCTSMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	m := NewMCTS(WithRandom(game.NewRandom(2)), WithRolloutDepth(10), WithMetrics(collector))
	tree := m.Search(newOpening(t), 50)
	got := collector.Complete(tree.RootValue())
	require.Equal(t, "mcts", got.Engine)
	require.Equal(t, 50, got.Iterations)
	require.Equal(t, tree.Size(), got.Nodes)
}
