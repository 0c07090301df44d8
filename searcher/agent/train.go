package agent

import (
	"math"

	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/searcher"
	"tazar/utils"
)

type trainingAgent struct {
	mcts        *searcher.MCTS
	iterations  int
	temperature float64
	random      game.Random
	collector   metrics.Collector
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples root commands by visit count raised to 1/temperature; a temperature
// of zero plays the most visited command.
func NewTrainingAgent(iterations int, temperature float64, r game.Random, opts ...searcher.Option) Agent {
	collector := metrics.NewCollector()
	opts = append(opts, searcher.WithMetrics(collector))
	return &trainingAgent{
		mcts:        searcher.NewMCTS(opts...),
		iterations:  iterations,
		temperature: temperature,
		random:      r,
		collector:   collector,
	}
}

func (a *trainingAgent) FindCommand(g game.Game) (game.Command, metrics.SearchMetric) {
	tree := a.mcts.Search(g, a.iterations)
	metric := a.collector.Complete(tree.RootValue())
	if a.temperature <= 0 {
		return tree.SelectCommand(), metric
	}

	policy := tree.Policy()
	weights := adjustTemperature(policy, a.temperature)
	if weights == nil {
		return tree.SelectCommand(), metric
	}
	return policy[utils.SampleIndex(weights, a.random.Float64())].Command, metric
}

// adjustTemperature returns visit counts raised to 1/temperature, or nil when
// nothing was visited.
func adjustTemperature(policy []searcher.Visit, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(policy))
	for i, v := range policy {
		if v.Visits == 0 {
			continue
		}
		adjusted[i] = math.Pow(float64(v.Visits), exponent)
		sum += adjusted[i]
	}
	if sum == 0 {
		return nil
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}
