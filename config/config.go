package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"tazar/meta"
	"tazar/searcher"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration for the application
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Search     SearchConfig     `mapstructure:"search"`
	Match      MatchConfig      `mapstructure:"match"`
	Experiment ExperimentConfig `mapstructure:"experiment"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

type SearchConfig struct {
	MCTS       MCTSConfig       `mapstructure:"mcts"`
	Expectimax ExpectimaxConfig `mapstructure:"expectimax"`
	Flat       FlatConfig       `mapstructure:"flat"`
}

type MCTSConfig struct {
	Iterations   int     `mapstructure:"iterations"`
	RolloutDepth int     `mapstructure:"rollout_depth"`
	Exploration  float64 `mapstructure:"exploration"`
	WideningK    float64 `mapstructure:"widening_k"`
	WideningExp  float64 `mapstructure:"widening_exp"`
	HybridDepth  int     `mapstructure:"hybrid_depth"`
	Temperature  float64 `mapstructure:"temperature"`
}

type ExpectimaxConfig struct {
	Difficulty string `mapstructure:"difficulty"`
	Depth      int    `mapstructure:"depth"` // overrides difficulty when positive
}

type FlatConfig struct {
	Iterations   int `mapstructure:"iterations"`
	RolloutDepth int `mapstructure:"rollout_depth"`
}

type MatchConfig struct {
	Red      string `mapstructure:"red"`  // agent kind
	Blue     string `mapstructure:"blue"` // agent kind
	MaxTurns int    `mapstructure:"max_turns"`
	Seed     uint64 `mapstructure:"seed"` // 0 draws a fresh seed
}

type ExperimentConfig struct {
	Name    string `mapstructure:"name"`
	Games   int    `mapstructure:"games"`
	Workers int    `mapstructure:"workers"`
	Output  string `mapstructure:"output"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("search.mcts.iterations", meta.ITERATIONS)
	v.SetDefault("search.mcts.rollout_depth", meta.ROLLOUT_DEPTH)
	v.SetDefault("search.mcts.exploration", 1.4142135623730951)
	v.SetDefault("search.mcts.widening_k", 2.0)
	v.SetDefault("search.mcts.widening_exp", 0.5)
	v.SetDefault("search.mcts.hybrid_depth", meta.HYBRID_DEPTH)
	v.SetDefault("search.mcts.temperature", 1.0)

	v.SetDefault("search.expectimax.difficulty", "medium")
	v.SetDefault("search.expectimax.depth", 0)

	v.SetDefault("search.flat.iterations", meta.FLAT_ITERATIONS)
	v.SetDefault("search.flat.rollout_depth", meta.ROLLOUT_DEPTH)

	v.SetDefault("match.red", "mcts")
	v.SetDefault("match.blue", "expectimax")
	v.SetDefault("match.max_turns", meta.MAX_TURNS)
	v.SetDefault("match.seed", 0)

	v.SetDefault("experiment.name", "matchups")
	v.SetDefault("experiment.games", meta.GAMES)
	v.SetDefault("experiment.workers", meta.WORKERS)
	v.SetDefault("experiment.output", "experiments")
}

// Init initializes the configuration. An empty path searches the default
// locations; a missing file falls back to defaults.
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("TAZAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !isMissingFile(err) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	// Re-unmarshal to update struct
	_ = v.Unmarshal(cfg)
}

// Validate checks the ranges the searchers rely on.
func Validate(c *Config) error {
	switch {
	case c.Search.MCTS.Iterations <= 0:
		return fmt.Errorf("%w: search.mcts.iterations must be positive", ErrInvalid)
	case c.Search.MCTS.RolloutDepth < 0:
		return fmt.Errorf("%w: search.mcts.rollout_depth cannot be negative", ErrInvalid)
	case c.Search.MCTS.Exploration <= 0:
		return fmt.Errorf("%w: search.mcts.exploration must be positive", ErrInvalid)
	case c.Search.MCTS.WideningK <= 0 || c.Search.MCTS.WideningExp < 0 || c.Search.MCTS.WideningExp > 1:
		return fmt.Errorf("%w: search.mcts widening needs k > 0 and 0 <= exp <= 1", ErrInvalid)
	case c.Search.MCTS.Temperature < 0:
		return fmt.Errorf("%w: search.mcts.temperature cannot be negative", ErrInvalid)
	case c.Search.Expectimax.Depth < 0:
		return fmt.Errorf("%w: search.expectimax.depth cannot be negative", ErrInvalid)
	case c.Search.Flat.Iterations <= 0:
		return fmt.Errorf("%w: search.flat.iterations must be positive", ErrInvalid)
	case c.Match.MaxTurns <= 0:
		return fmt.Errorf("%w: match.max_turns must be positive", ErrInvalid)
	case c.Experiment.Games <= 0 || c.Experiment.Workers <= 0:
		return fmt.Errorf("%w: experiment games and workers must be positive", ErrInvalid)
	}
	if _, err := searcher.ParseDifficulty(c.Search.Expectimax.Difficulty); err != nil {
		return fmt.Errorf("%w: search.expectimax: %w", ErrInvalid, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// ExpectimaxDepth resolves the configured expectimax depth.
func (c ExpectimaxConfig) ExpectimaxDepth() int {
	if c.Depth > 0 {
		return c.Depth
	}
	d, err := searcher.ParseDifficulty(c.Difficulty)
	if err != nil {
		return meta.EXPECTIMAX_DEPTH
	}
	return d.Depth()
}
