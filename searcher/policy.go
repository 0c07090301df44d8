package searcher

import (
	"math"

	"tazar/experiments/metrics"
	"tazar/game"
)

// Tactic classifies a command for the rollout and expansion policy, from
// least to most attractive.
type Tactic int

const (
	TacticEndTurn Tactic = iota
	TacticMove
	TacticCharge // Horse trading itself for a Pike or Horse
	TacticKillBow
	TacticKillHorse
	TacticVolley
	TacticKillCrown
)

var tacticWeights = func() [TacticKillCrown + 1]float64 {
	var w [TacticKillCrown + 1]float64
	for i := range w {
		w[i] = math.Exp(float64(i))
	}
	return w
}()

// Classify places a legal command on the tactic ladder.
func Classify(g *game.Game, cmd game.Command) Tactic {
	switch cmd.Kind {
	case game.CommandVolley:
		return TacticVolley
	case game.CommandMove:
		mover := g.PieceAt(cmd.Piece).Kind
		switch g.PieceAt(cmd.Target).Kind {
		case game.Crown:
			return TacticKillCrown
		case game.Horse:
			if mover == game.Horse {
				return TacticCharge
			}
			return TacticKillHorse
		case game.Pike:
			return TacticCharge
		case game.Bow:
			return TacticKillBow
		default:
			return TacticMove
		}
	default:
		return TacticEndTurn
	}
}

// Weight is the unnormalized policy probability of a command.
func Weight(g *game.Game, cmd game.Command) float64 {
	return tacticWeights[Classify(g, cmd)]
}

// Pick samples one command with probability proportional to its tactic
// weight, using a single uniform draw.
func Pick(g *game.Game, cmds []game.Command, r game.Random) game.Command {
	switch len(cmds) {
	case 0:
		panic("no commands to pick from")
	case 1:
		return cmds[0]
	}

	total := 0.0
	for _, c := range cmds {
		total += Weight(g, c)
	}
	x := r.Float64() * total
	for _, c := range cmds {
		x -= Weight(g, c)
		if x < 0 {
			return c
		}
	}
	return cmds[len(cmds)-1] // Rounding fallback
}

type rollout struct {
	depth    int
	evaluate game.Evaluate
	random   game.Random
	metrics  metrics.Collector
	buf      []game.Command
}

// play runs the policy on g until the game ends, or until depth commands have
// been played and the running turn is finished. g is modified. The result is
// the score from player's perspective.
func (r *rollout) play(g *game.Game, player game.Player) float64 {
	for depth := r.depth; !g.Over() && (depth > 0 || g.Turn.ActivationIndex != 0); depth-- {
		r.buf = g.AppendValidCommands(r.buf[:0])
		cmd := Pick(g, r.buf, r.random)
		result := game.VolleyMiss
		if cmd.Kind == game.CommandVolley {
			result = game.RollVolley(r.random)
		}
		g.Apply(g.Turn.Player, cmd, result)
	}
	return r.score(g, player)
}

func (r *rollout) score(g *game.Game, player game.Player) float64 {
	if g.Over() {
		r.metrics.AddFullPlayout()
		if g.Winner == player {
			return Win
		}
		return Loss
	}
	return game.ValueFor(r.evaluate, g, player)
}
