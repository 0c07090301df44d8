package agent

import (
	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/searcher"
)

type evaluationAgent struct {
	mcts       *searcher.MCTS
	iterations int
	collector  metrics.Collector
}

// NewEvaluationAgent returns an MCTS agent that plays the most visited
// command, for actual game play during evaluation.
func NewEvaluationAgent(iterations int, opts ...searcher.Option) Agent {
	collector := metrics.NewCollector()
	opts = append(opts, searcher.WithMetrics(collector))
	return &evaluationAgent{
		mcts:       searcher.NewMCTS(opts...),
		iterations: iterations,
		collector:  collector,
	}
}

func (a *evaluationAgent) FindCommand(g game.Game) (game.Command, metrics.SearchMetric) {
	tree := a.mcts.Search(g, a.iterations)
	return tree.SelectCommand(), a.collector.Complete(tree.RootValue())
}
