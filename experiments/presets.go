package experiments

import (
	"errors"
	"fmt"
	"sort"

	"tazar/config"
	"tazar/experiments/metrics"
	"tazar/searcher"
	"tazar/searcher/agent"
)

var ErrUnknownExperiment = errors.New("unknown experiment")

type preset func(c *config.Config) ([]metrics.AgentConfig, [][2]metrics.AgentConfig)

var presets = map[string]preset{
	"difficulty": difficultyLadder,
	"engines":    engines,
	"throughput": throughput,
	"cutoff":     cutoff,
}

// Names lists the available experiments.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named experiment from the loaded configuration.
func New(name string, c *config.Config) (Experiment, error) {
	p, ok := presets[name]
	if !ok {
		return Experiment{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownExperiment, name, Names())
	}
	configs, matchUps := p(c)
	return Experiment{
		Name:     name,
		Configs:  configs,
		MatchUps: matchUps,
		Games:    c.Experiment.Games,
		Workers:  c.Experiment.Workers,
		MaxTurns: c.Match.MaxTurns,
		Output:   c.Experiment.Output,
	}, nil
}

// AgentConfig returns the configured agent of the given kind.
func AgentConfig(id int, kind string, c *config.Config) metrics.AgentConfig {
	mcts := c.Search.MCTS
	ac := metrics.AgentConfig{ID: id, Kind: kind}
	switch kind {
	case agent.KindExpectimax:
		ac.Depth = c.Search.Expectimax.ExpectimaxDepth()
	case agent.KindMCTS, agent.KindHybrid, agent.KindTraining:
		ac.Iterations = mcts.Iterations
		ac.RolloutDepth = mcts.RolloutDepth
		ac.Exploration = mcts.Exploration
		ac.WideningK = mcts.WideningK
		ac.WideningExp = mcts.WideningExp
		if kind == agent.KindHybrid {
			ac.Depth = mcts.HybridDepth
		}
		if kind == agent.KindTraining {
			ac.Temperature = mcts.Temperature
		}
	case agent.KindFlat:
		ac.Iterations = c.Search.Flat.Iterations
		ac.RolloutDepth = c.Search.Flat.RolloutDepth
	}
	return ac
}

// Each difficulty plays every other one.
func difficultyLadder(c *config.Config) ([]metrics.AgentConfig, [][2]metrics.AgentConfig) {
	var configs []metrics.AgentConfig
	for i, d := range []searcher.Difficulty{searcher.DifficultyEasy, searcher.DifficultyMedium, searcher.DifficultyHard} {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Kind: agent.KindExpectimax, Depth: d.Depth()})
	}
	var matchUps [][2]metrics.AgentConfig
	for i := range configs {
		for j := i + 1; j < len(configs); j++ {
			matchUps = append(matchUps, [2]metrics.AgentConfig{configs[i], configs[j]})
		}
	}
	return configs, matchUps
}

// Every engine plays the configured MCTS baseline.
func engines(c *config.Config) ([]metrics.AgentConfig, [][2]metrics.AgentConfig) {
	baseline := AgentConfig(0, agent.KindMCTS, c)
	configs := []metrics.AgentConfig{baseline}
	var matchUps [][2]metrics.AgentConfig
	for i, kind := range []string{agent.KindExpectimax, agent.KindHybrid, agent.KindFlat, agent.KindHeuristic} {
		ac := AgentConfig(i+1, kind, c)
		configs = append(configs, ac)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, ac})
	}
	return configs, matchUps
}

// Each matchup uses the same config for both players, for the same playing
// strength and similar game length.
func throughput(c *config.Config) ([]metrics.AgentConfig, [][2]metrics.AgentConfig) {
	var configs []metrics.AgentConfig
	var matchUps [][2]metrics.AgentConfig
	for i, iterations := range []int{100, 200, 400, 800, 1600} {
		ac := AgentConfig(i+1, agent.KindMCTS, c)
		ac.Iterations = iterations
		configs = append(configs, ac)
		matchUps = append(matchUps, [2]metrics.AgentConfig{ac, ac})
	}
	return configs, matchUps
}

// Each matchup pairs the full-playout baseline against a shorter rollout.
func cutoff(c *config.Config) ([]metrics.AgentConfig, [][2]metrics.AgentConfig) {
	baseline := AgentConfig(0, agent.KindMCTS, c)
	configs := []metrics.AgentConfig{baseline}
	var matchUps [][2]metrics.AgentConfig
	for i, depth := range []int{10, 75, 150} {
		ac := baseline
		ac.ID = i + 1
		ac.RolloutDepth = depth
		configs = append(configs, ac)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, ac})
	}
	return configs, matchUps
}
