package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tazar/experiments/metrics"
	"tazar/game"
	"tazar/meta"
	"tazar/searcher/agent"
	"tazar/utils"
)

type Option func(*LocalEngine)

// WithMaxTurns caps the game, counted in commands.
func WithMaxTurns(n int) Option {
	return func(e *LocalEngine) {
		e.maxTurns = n
	}
}

// WithRandom sets the source rolling the volleys of this game.
func WithRandom(r game.Random) Option {
	return func(e *LocalEngine) {
		e.random = r
	}
}

// WithGame starts the match from g instead of the opening.
func WithGame(g game.Game) Option {
	return func(e *LocalEngine) {
		e.game = g
	}
}

// WithLogger sets the logger for match progress.
func WithLogger(l zerolog.Logger) Option {
	return func(e *LocalEngine) {
		e.logger = l
	}
}

// LocalEngine runs two in-process agents against each other.
type LocalEngine struct {
	game     game.Game
	agents   [2]agent.Agent // Red, Blue
	random   game.Random
	maxTurns int
	logger   zerolog.Logger
}

func NewLocalEngine(red, blue agent.Agent, opts ...Option) (*LocalEngine, error) {
	if red == nil || blue == nil {
		panic("need an agent for each player")
	}
	g, err := game.New(game.ModeAttrition, game.MapHexFieldSmall)
	if err != nil {
		return nil, fmt.Errorf("new local engine: %w", err)
	}
	e := &LocalEngine{
		game:     *g,
		agents:   [2]agent.Agent{red, blue},
		random:   game.DefaultRandom(),
		maxTurns: meta.MAX_TURNS,
		logger:   log.With().Str("component", "engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *LocalEngine) Game() game.Game {
	return e.game
}

func (e *LocalEngine) agentFor(p game.Player) agent.Agent {
	if p == game.Blue {
		return e.agents[1]
	}
	return e.agents[0]
}

// Run executes the game loop until a winner is found, the turn cap is reached
// or ctx is cancelled. A cancelled search keeps running in the background, so
// its agent must not be reused.
func (e *LocalEngine) Run(ctx context.Context) (game.Player, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.game.Turn.Player,
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	e.logger.Debug().Msgf("player %s is starting", e.game.Turn.Player)

	for step := 1; !e.game.Over() && step <= e.maxTurns; step++ {
		if err := ctx.Err(); err != nil {
			return game.None, gameMetric, moveMetrics, err
		}
		player := e.game.Turn.Player

		var d Decision
		select {
		case d = <-Think(e.agentFor(player), e.game):
		case <-ctx.Done():
			return game.None, gameMetric, moveMetrics, ctx.Err()
		}

		cmd := d.Command
		if utils.FindIndex(e.game.ValidCommands(), cmd) < 0 {
			e.logger.Warn().Msgf("%s returned an illegal command %s, ending the turn instead", player, cmd)
			cmd = game.EndTurn
		}

		result := game.VolleyMiss
		if cmd.Kind == game.CommandVolley {
			result = game.RollVolley(e.random)
		}
		e.game.Apply(player, cmd, result)

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Command:      cmd,
			SearchMetric: d.Metric,
		})
		gameMetric.TotalMoves++
		if e.game.Turn.Player != player || e.game.Over() {
			gameMetric.TotalTurns++
		}
	}

	gameMetric.Winner = e.game.Winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)

	if e.game.Over() {
		e.logger.Debug().Msgf("game ended after %d commands, winner: %s", gameMetric.TotalMoves, e.game.Winner)
	} else {
		e.logger.Debug().Msgf("stopped after %d commands (no winner yet)", gameMetric.TotalMoves)
	}
	return e.game.Winner, gameMetric, moveMetrics, nil
}
