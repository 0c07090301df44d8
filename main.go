package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"tazar/config"
	"tazar/engine"
	"tazar/experiments"
	"tazar/game"
	"tazar/gamemaster"
	"tazar/player"
	"tazar/searcher/agent"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	mode := flag.String("mode", "match", "What to run: match, experiment or session")
	name := flag.String("experiment", "", "Experiment to run (empty to use config default)")
	red := flag.String("red", "", "Red agent kind (empty to use config default)")
	blue := flag.String("blue", "", "Blue agent kind (empty to use config default)")
	seed := flag.Uint64("seed", 0, "Seed for agents and dice (0 to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	if *red != "" {
		config.Set("match.red", *red)
	}
	if *blue != "" {
		config.Set("match.blue", *blue)
	}
	if *seed != 0 {
		config.Set("match.seed", *seed)
	}
	if *name != "" {
		config.Set("experiment.name", *name)
	}
	if *logLevel != "" {
		config.Set("log.level", *logLevel)
	}
	cfg := config.Get()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch *mode {
	case "match":
		err = runMatch(ctx, cfg)
	case "experiment":
		err = runExperiment(ctx, cfg)
	case "session":
		err = runSession(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Str("mode", *mode).Msg("Run failed")
	}
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
}

func seedFor(cfg *config.Config) uint64 {
	if cfg.Match.Seed != 0 {
		return cfg.Match.Seed
	}
	return frand.Uint64n(1 << 63)
}

func newAgents(cfg *config.Config, seed uint64) (agent.Agent, agent.Agent, error) {
	red, err := agent.New(experiments.AgentConfig(1, cfg.Match.Red, cfg), game.NewRandom(seed+1))
	if err != nil {
		return nil, nil, fmt.Errorf("red agent: %w", err)
	}
	blue, err := agent.New(experiments.AgentConfig(2, cfg.Match.Blue, cfg), game.NewRandom(seed+2))
	if err != nil {
		return nil, nil, fmt.Errorf("blue agent: %w", err)
	}
	return red, blue, nil
}

func runMatch(ctx context.Context, cfg *config.Config) error {
	seed := seedFor(cfg)
	red, blue, err := newAgents(cfg, seed)
	if err != nil {
		return err
	}
	e, err := engine.NewLocalEngine(red, blue,
		engine.WithMaxTurns(cfg.Match.MaxTurns),
		engine.WithRandom(game.NewRandom(seed)),
	)
	if err != nil {
		return err
	}

	log.Info().Str("red", cfg.Match.Red).Str("blue", cfg.Match.Blue).Uint64("seed", seed).Msg("Starting match")
	winner, metric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	g := e.Game()
	fmt.Println(g.String())
	log.Info().
		Str("winner", winner.String()).
		Int("moves", metric.TotalMoves).
		Int("turns", metric.TotalTurns).
		Dur("duration", metric.Duration).
		Msg("Match over")
	return nil
}

func runExperiment(ctx context.Context, cfg *config.Config) error {
	exp, err := experiments.New(cfg.Experiment.Name, cfg)
	if err != nil {
		return err
	}
	log.Info().Str("experiment", exp.Name).Int("matchups", len(exp.MatchUps)).Int("games", exp.Games).Msg("Starting experiment")
	res, err := experiments.Run(ctx, exp)
	if err != nil {
		return err
	}
	log.Info().Str("run", res.RunID.String()).Str("dir", res.Dir).Int("games", len(res.GameRecords)).Msg("Experiment finished")
	return nil
}

// runSession seats one controller per side at a shared session.
func runSession(ctx context.Context, cfg *config.Config) error {
	seed := seedFor(cfg)
	red, blue, err := newAgents(cfg, seed)
	if err != nil {
		return err
	}
	s, err := gamemaster.NewSession(game.NewRandom(seed))
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, c := range []player.Controller{
		player.NewController(game.Red, red, s, cfg.Match.MaxTurns),
		player.NewController(game.Blue, blue, s, cfg.Match.MaxTurns),
	} {
		c := c
		eg.Go(func() error { return c.Run(ctx) })
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	g := s.Game()
	fmt.Println(g.String())
	status, winner := s.Status()
	log.Info().Str("status", status.String()).Str("winner", winner.String()).Int("moves", s.Moves()).Msg("Session over")
	return nil
}
