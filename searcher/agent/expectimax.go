package agent

import (
	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/searcher"
)

type expectimaxAgent struct {
	expectimax *searcher.Expectimax
	collector  metrics.Collector
}

// NewExpectimaxAgent returns an agent searching to a fixed depth.
func NewExpectimaxAgent(depth int) Agent {
	collector := metrics.NewCollector()
	return &expectimaxAgent{
		expectimax: searcher.NewExpectimax(depth, searcher.WithExpectimaxMetrics(collector)),
		collector:  collector,
	}
}

// NewDifficultyAgent returns the expectimax agent for a difficulty level.
func NewDifficultyAgent(d searcher.Difficulty) Agent {
	return NewExpectimaxAgent(d.Depth())
}

func (a *expectimaxAgent) FindCommand(g game.Game) (game.Command, metrics.SearchMetric) {
	res := a.expectimax.Search(g)
	value := res.Value
	if g.Turn.Player == game.Blue {
		value = -value
	}
	return res.Best, a.collector.Complete(value)
}
