package agent

import (
	"time"

	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/searcher"
)

type heuristicAgent struct {
	random game.Random
}

// NewHeuristicAgent returns an agent that samples the tactical policy without
// any search.
func NewHeuristicAgent(r game.Random) Agent {
	return heuristicAgent{random: r}
}

func (a heuristicAgent) FindCommand(g game.Game) (game.Command, metrics.SearchMetric) {
	start := time.Now()
	cmd := searcher.Pick(&g, g.ValidCommands(), a.random)
	return cmd, metrics.SearchMetric{Engine: KindHeuristic, Duration: time.Since(start)}
}
