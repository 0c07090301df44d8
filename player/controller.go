// Package player seats an agent at a gamemaster session for one side.
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tazar/engine"
	"tazar/game"
	"tazar/gamemaster"
	"tazar/searcher/agent"
)

const pollInterval = time.Millisecond

type Controller interface {
	Run(ctx context.Context) error
}

type controller struct {
	player   game.Player
	agent    agent.Agent
	session  *gamemaster.Session
	maxMoves int
	logger   zerolog.Logger
}

// NewController returns a controller that plays agent's commands for player
// until the game ends or the session holds maxMoves commands.
func NewController(player game.Player, a agent.Agent, s *gamemaster.Session, maxMoves int) Controller {
	return &controller{
		player:   player,
		agent:    a,
		session:  s,
		maxMoves: maxMoves,
		logger:   log.With().Str("component", "player").Str("player", player.String()).Logger(),
	}
}

func (c *controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		g := c.session.Game()
		if g.Over() || c.session.Moves() >= c.maxMoves {
			return nil
		}
		if g.Turn.Player != c.player {
			select {
			case <-ticker.C:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var d engine.Decision
		select {
		case d = <-engine.Think(c.agent, g):
		case <-ctx.Done():
			return ctx.Err()
		}

		_, err := c.session.Play(c.player, d.Command)
		if errors.Is(err, gamemaster.ErrIllegalCommand) {
			c.logger.Warn().Msgf("agent chose illegal command %s, ending the turn", d.Command)
			_, err = c.session.Play(c.player, game.EndTurn)
		}
		if err != nil {
			return fmt.Errorf("%s controller: %w", c.player, err)
		}
	}
}
