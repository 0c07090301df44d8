// Package agent wraps the searchers behind one interface so that engines and
// experiments can seat any of them in a match.
package agent

import (
	"errors"
	"fmt"

	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/searcher"
)

// Agent kinds accepted by New
const (
	KindExpectimax = "expectimax"
	KindMCTS       = "mcts"
	KindHybrid     = "hybrid"
	KindFlat       = "flat"
	KindHeuristic  = "heuristic"
	KindTraining   = "training"
)

var ErrUnknownKind = errors.New("unknown agent kind")

type Agent interface {
	// FindCommand returns the command to play and performance metrics from
	// the search that produced it.
	FindCommand(g game.Game) (game.Command, metrics.SearchMetric)
}

// New builds the agent described by config. Random sources command sampling
// and rollouts; pass nil to use the process-wide default.
func New(config metrics.AgentConfig, r game.Random) (Agent, error) {
	if r == nil {
		r = game.DefaultRandom()
	}
	switch config.Kind {
	case KindExpectimax:
		return NewExpectimaxAgent(config.Depth), nil
	case KindMCTS, KindHybrid, KindTraining:
		opts := []searcher.Option{searcher.WithRandom(r)}
		if config.RolloutDepth > 0 {
			opts = append(opts, searcher.WithRolloutDepth(config.RolloutDepth))
		}
		if config.Exploration > 0 {
			opts = append(opts, searcher.WithExploration(config.Exploration))
		}
		if config.WideningK > 0 {
			opts = append(opts, searcher.WithWidening(config.WideningK, config.WideningExp))
		}
		if config.Kind == KindHybrid {
			depth := config.Depth
			if depth <= 0 {
				depth = 1
			}
			opts = append(opts, searcher.WithHybrid(depth))
		}
		if config.Kind == KindTraining {
			return NewTrainingAgent(config.Iterations, config.Temperature, r, opts...), nil
		}
		return NewEvaluationAgent(config.Iterations, opts...), nil
	case KindFlat:
		opts := []searcher.FlatOption{searcher.WithFlatRandom(r)}
		if config.RolloutDepth > 0 {
			opts = append(opts, searcher.WithFlatRolloutDepth(config.RolloutDepth))
		}
		return NewFlatAgent(config.Iterations, opts...), nil
	case KindHeuristic:
		return NewHeuristicAgent(r), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, config.Kind)
}
