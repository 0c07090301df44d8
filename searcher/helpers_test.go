package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/hex"
)

func nopCollector() metrics.Collector {
	return metrics.NewDummyCollector()
}

var (
	redCrown  = game.Placement{Pos: hex.New(-4, 0), Kind: game.Crown, Owner: game.Red}
	blueCrown = game.Placement{Pos: hex.New(4, 0), Kind: game.Crown, Owner: game.Blue}
)

func newPosition(t *testing.T, player game.Player, pieces ...game.Placement) game.Game {
	t.Helper()
	g, err := game.NewFromPlacements(player, append([]game.Placement{redCrown, blueCrown}, pieces...))
	require.NoError(t, err)
	return *g
}

func newOpening(t *testing.T) game.Game {
	t.Helper()
	g, err := game.New(game.ModeAttrition, game.MapHexFieldSmall)
	require.NoError(t, err)
	return *g
}

// crownInReach has a Red pike next to the Blue crown on Red's last
// activation, while a Blue pike threatens the Red crown.
func crownInReach(t *testing.T) (game.Game, game.Command) {
	t.Helper()
	g := newPosition(t, game.Red,
		game.Placement{Pos: hex.New(3, 0), Kind: game.Pike, Owner: game.Red},
		game.Placement{Pos: hex.New(0, -3), Kind: game.Horse, Owner: game.Red},
		game.Placement{Pos: hex.New(-3, 0), Kind: game.Pike, Owner: game.Blue},
	)
	u := g.Apply(game.Red, game.Command{Kind: game.CommandMove, Piece: hex.New(0, -3), Target: hex.New(1, -3)}, game.VolleyMiss)
	require.True(t, u.Applied())
	require.Equal(t, 1, g.Turn.ActivationIndex)
	return g, game.Command{Kind: game.CommandMove, Piece: hex.New(3, 0), Target: blueCrown.Pos}
}

// randomPositions plays seeded random games and collects in-progress
// positions along the way.
func randomPositions(t *testing.T, seed uint64, count int) []game.Game {
	t.Helper()
	rnd := game.NewRandom(seed)
	g := newOpening(t)
	var out []game.Game
	for step := 0; len(out) < count; step++ {
		if g.Over() {
			g = newOpening(t)
		}
		if step%7 == 3 {
			out = append(out, g)
		}
		cmds := g.ValidCommands()
		g.Apply(g.Turn.Player, cmds[rnd.IntRange(0, len(cmds)-1)], game.RollVolley(rnd))
	}
	return out
}

// reference is a plain recursive expectimax without pruning.
func reference(g game.Game, depth int) float64 {
	if depth <= 0 || g.Over() {
		return game.ValueForRed(&g)
	}
	player := g.Turn.Player
	best := math.Inf(-1)
	if player == game.Blue {
		best = math.Inf(1)
	}
	for _, cmd := range g.ValidCommands() {
		v := referenceCommand(g, cmd, depth).Value
		if player == game.Red {
			best = math.Max(best, v)
		} else {
			best = math.Min(best, v)
		}
	}
	return best
}

// referenceCommand is the exact value of playing cmd in g, searched to depth.
func referenceCommand(g game.Game, cmd game.Command, depth int) CommandValue {
	player := g.Turn.Player
	if cmd.Kind == game.CommandVolley {
		hit, miss := g, g
		hit.Apply(player, cmd, game.VolleyHit)
		miss.Apply(player, cmd, game.VolleyMiss)
		h, m := reference(hit, depth-1), reference(miss, depth-1)
		return CommandValue{Value: game.HitProbability*h + (1-game.HitProbability)*m, Hit: h, Miss: m}
	}
	next := g
	next.Apply(player, cmd, game.VolleyMiss)
	v := reference(next, depth-1)
	return CommandValue{Value: v, Hit: v, Miss: v}
}

type fixedRandom struct {
	u float64
}

func (r fixedRandom) Float64() float64        { return r.u }
func (r fixedRandom) IntRange(lo, hi int) int { return lo }

func indexOf(t *testing.T, cmds []game.Command, cmd game.Command) int {
	t.Helper()
	for i, c := range cmds {
		if c == cmd {
			return i
		}
	}
	require.Failf(t, "command not found", "%s", cmd)
	return -1
}
