package agent

import (
	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/searcher"
)

type flatAgent struct {
	flat       *searcher.Flat
	iterations int
	collector  metrics.Collector
}

// NewFlatAgent returns the flat Monte-Carlo baseline.
func NewFlatAgent(iterations int, opts ...searcher.FlatOption) Agent {
	collector := metrics.NewCollector()
	opts = append(opts, searcher.WithFlatMetrics(collector))
	return &flatAgent{
		flat:       searcher.NewFlat(opts...),
		iterations: iterations,
		collector:  collector,
	}
}

func (a *flatAgent) FindCommand(g game.Game) (game.Command, metrics.SearchMetric) {
	s := a.flat.Search(g, a.iterations)
	return s.SelectCommand(), a.collector.Complete(s.Mean())
}
