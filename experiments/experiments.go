// Package experiments plays matchups between agent configurations and stores
// game and move records as CSV.
package experiments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"tazar/engine"
	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/meta"
	"tazar/searcher/agent"
)

var ErrNoMatchUps = errors.New("experiment has no matchups")

// Experiment plays Games games for every matchup. Colors alternate between
// games so that each configuration opens half of them.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
	Games    int
	Workers  int
	MaxTurns int
	Output   string // root directory for results, empty to skip writing
}

// Result holds everything an experiment produced.
type Result struct {
	RunID       uuid.UUID
	Dir         string
	GameRecords []metrics.GameRecord
	MoveRecords []metrics.MoveRecord
}

type job struct {
	matchUp int
	index   int
	red     metrics.AgentConfig
	blue    metrics.AgentConfig
	seed    uint64
}

type outcome struct {
	game  metrics.GameRecord
	moves []metrics.MoveRecord
}

// Run plays every game of exp, at most exp.Workers at a time.
func Run(ctx context.Context, exp Experiment) (Result, error) {
	if len(exp.MatchUps) == 0 {
		return Result{}, ErrNoMatchUps
	}
	if exp.Games <= 0 {
		exp.Games = meta.GAMES
	}
	if exp.Workers <= 0 {
		exp.Workers = meta.WORKERS
	}
	if exp.MaxTurns <= 0 {
		exp.MaxTurns = meta.MAX_TURNS
	}

	res := Result{RunID: uuid.New()}
	log.Info().Msgf("starting %s experiment %s...", exp.Name, res.RunID)

	jobs := make([]job, 0, len(exp.MatchUps)*exp.Games)
	for mi, matchUp := range exp.MatchUps {
		for i := 0; i < exp.Games; i++ {
			red, blue := matchUp[0], matchUp[1]
			if i%2 == 1 {
				red, blue = blue, red
			}
			jobs = append(jobs, job{matchUp: mi, index: i, red: red, blue: blue, seed: frand.Uint64n(1 << 63)})
		}
	}
	// Interleave matchups so that slow configurations do not cluster.
	frand.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })

	outcomes := make([]outcome, len(jobs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(exp.Workers)
	for k := range jobs {
		k := k
		j := jobs[k]
		eg.Go(func() error {
			o, err := runGame(ctx, j, exp.MaxTurns)
			if err != nil {
				return fmt.Errorf("matchup %d game %d: %w", j.matchUp+1, j.index+1, err)
			}
			outcomes[k] = o
			log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %s",
				j.matchUp+1, len(exp.MatchUps), j.index+1, exp.Games, o.game.Winner)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return res, err
	}

	for _, o := range outcomes {
		res.GameRecords = append(res.GameRecords, o.game)
		res.MoveRecords = append(res.MoveRecords, o.moves...)
	}
	log.Info().Msgf("completed %s experiment, %d games", exp.Name, len(res.GameRecords))

	if exp.Output == "" {
		return res, nil
	}
	dir, err := store(exp, res)
	res.Dir = dir
	return res, err
}

// runGame plays one game. Dice and both agents draw from sources derived
// from the job seed.
func runGame(ctx context.Context, j job, maxTurns int) (outcome, error) {
	red, err := agent.New(j.red, game.NewRandom(j.seed+1))
	if err != nil {
		return outcome{}, err
	}
	blue, err := agent.New(j.blue, game.NewRandom(j.seed+2))
	if err != nil {
		return outcome{}, err
	}
	e, err := engine.NewLocalEngine(red, blue,
		engine.WithRandom(game.NewRandom(j.seed)),
		engine.WithMaxTurns(maxTurns),
	)
	if err != nil {
		return outcome{}, err
	}

	_, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return outcome{}, err
	}

	id := uuid.New()
	o := outcome{game: metrics.GameRecord{
		ID:         id,
		Agent1:     j.red.ID,
		Agent2:     j.blue.ID,
		GameMetric: gameMetric,
	}}
	for _, mm := range moveMetrics {
		o.moves = append(o.moves, metrics.MoveRecord{Game: id, MoveMetric: mm})
	}
	return o, nil
}

func store(exp Experiment, res Result) (string, error) {
	writer, err := metrics.NewWriter(exp.Output, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(exp.Configs); err != nil {
		return writer.Dir(), fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(res.GameRecords); err != nil {
		return writer.Dir(), fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(res.MoveRecords); err != nil {
		return writer.Dir(), fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
