package searcher

import (
	"math"

	"tazar/experiments/metrics"
	"tazar/game"
)

type FlatOption func(*Flat)

func WithFlatRolloutDepth(depth int) FlatOption {
	return func(f *Flat) {
		f.rollout.depth = depth
	}
}

func WithFlatRandom(r game.Random) FlatOption {
	return func(f *Flat) {
		f.rollout.random = r
	}
}

func WithFlatMetrics(collector metrics.Collector) FlatOption {
	return func(f *Flat) {
		f.rollout.metrics = collector
	}
}

// Flat is a flat Monte-Carlo search: root commands take turns receiving one
// policy rollout each.
type Flat struct {
	rollout rollout
}

// FlatState holds the per-command statistics of a flat search.
type FlatState struct {
	commands []game.Command
	scores   []float64
	passes   []int
	next     int
}

func NewFlat(opts ...FlatOption) *Flat {
	f := &Flat{rollout: rollout{
		depth:    DefaultRolloutDepth,
		evaluate: game.ValueForRed,
		random:   game.DefaultRandom(),
		metrics:  metrics.NewDummyCollector(),
	}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flat) NewState(g game.Game) *FlatState {
	commands := g.ValidCommands()
	return &FlatState{
		commands: commands,
		scores:   make([]float64, len(commands)),
		passes:   make([]int, len(commands)),
	}
}

// Think spends iterations round-robin over the root commands. g must be the
// position the state was created for.
func (f *Flat) Think(s *FlatState, g game.Game, iterations int) {
	player := g.Turn.Player
	for i := 0; i < iterations; i++ {
		k := s.next % len(s.commands)
		s.next++

		sim := g
		cmd := s.commands[k]
		result := game.VolleyMiss
		if cmd.Kind == game.CommandVolley {
			result = game.RollVolley(f.rollout.random)
		}
		sim.Apply(player, cmd, result)
		s.scores[k] += f.rollout.play(&sim, player)
		s.passes[k]++
		f.rollout.metrics.AddIteration()
	}
}

func (f *Flat) Search(g game.Game, iterations int) *FlatState {
	f.rollout.metrics.Start("flat", f.rollout.depth)
	s := f.NewState(g)
	f.Think(s, g, iterations)
	return s
}

// SelectCommand returns the command with the best mean score. Commands that
// were never played are skipped; later commands win ties.
func (s *FlatState) SelectCommand() game.Command {
	best, bestMean := game.EndTurn, math.Inf(-1)
	for k, cmd := range s.commands {
		if s.passes[k] == 0 {
			continue
		}
		if mean := s.scores[k] / float64(s.passes[k]); mean >= bestMean {
			best, bestMean = cmd, mean
		}
	}
	return best
}

// Mean is the best mean score, from the perspective of the player to move.
func (s *FlatState) Mean() float64 {
	best := math.Inf(-1)
	for k := range s.commands {
		if s.passes[k] > 0 {
			best = math.Max(best, s.scores[k]/float64(s.passes[k]))
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

func (s *FlatState) Passes() int {
	return s.next
}
