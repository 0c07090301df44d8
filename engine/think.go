package engine

import (
	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/searcher/agent"
)

// Decision is the outcome of one search.
type Decision struct {
	Command game.Command
	Metric  metrics.SearchMetric
}

// Think runs one search on its own goroutine against a snapshot of g. The
// channel is buffered, so the search never blocks on a caller that stopped
// listening.
func Think(a agent.Agent, g game.Game) <-chan Decision {
	ch := make(chan Decision, 1)
	go func() {
		cmd, m := a.FindCommand(g)
		ch <- Decision{Command: cmd, Metric: m}
	}()
	return ch
}
