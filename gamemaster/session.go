// Package gamemaster owns a game on behalf of its callers and checks every
// command before it reaches the rule engine.
package gamemaster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tazar/game"
	"tazar/meta"
	"tazar/utils"
)

var (
	ErrGameOver       = errors.New("game is over")
	ErrIllegalCommand = errors.New("illegal command")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrWrongPlayer    = errors.New("not this player's turn")
)

// Update reports one command played on the session, or reverted when Undone
// is set, together with the resulting game.
type Update struct {
	Player  game.Player
	Command game.Command
	Result  game.VolleyResult
	Undone  bool
	Game    game.Game
}

// UpdateGetter returns the oldest unread update, or false when there is none.
type UpdateGetter func() (Update, bool)

type entry struct {
	update Update
	undo   game.Undo
}

// Session is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	game     game.Game
	random   game.Random
	history  []entry
	updateCh chan Update
	logger   zerolog.Logger
}

// NewSession starts a session on the standard attrition opening. Volleys are
// rolled with r, or with the process-wide source when r is nil.
func NewSession(r game.Random) (*Session, error) {
	g, err := game.New(game.ModeAttrition, game.MapHexFieldSmall)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	return NewSessionFrom(*g, r), nil
}

// NewSessionFrom starts a session on a copy of g.
func NewSessionFrom(g game.Game, r game.Random) *Session {
	if r == nil {
		r = game.DefaultRandom()
	}
	return &Session{
		game:     g,
		random:   r,
		updateCh: make(chan Update, meta.UPDATE_BUFFER),
		logger:   log.With().Str("component", "gamemaster").Logger(),
	}
}

// Updates returns a non-blocking getter over the session's updates.
func (s *Session) Updates() UpdateGetter {
	return func() (Update, bool) {
		select {
		case u := <-s.updateCh:
			return u, true
		default:
			return Update{}, false
		}
	}
}

// Game returns a copy of the current game.
func (s *Session) Game() game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// Status returns the game status and the winner, if any.
func (s *Session) Status() (game.Status, game.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Status, s.game.Winner
}

func (s *Session) ValidCommands() []game.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.ValidCommands()
}

// Moves returns the number of commands played and not undone.
func (s *Session) Moves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Play checks cmd and applies it for player. Volleys are rolled by the
// session.
func (s *Session) Play(player game.Player, cmd game.Command) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.Over() {
		return Update{}, fmt.Errorf("play %s: %w", cmd, ErrGameOver)
	}
	if player != s.game.Turn.Player {
		return Update{}, fmt.Errorf("play %s for %s: %w", cmd, player, ErrWrongPlayer)
	}
	if utils.FindIndex(s.game.ValidCommands(), cmd) < 0 {
		return Update{}, fmt.Errorf("play %s: %w", cmd, ErrIllegalCommand)
	}

	result := game.VolleyMiss
	if cmd.Kind == game.CommandVolley {
		result = game.RollVolley(s.random)
	}
	undo := s.game.Apply(player, cmd, result)
	if !undo.Applied() {
		panic(fmt.Sprintf("legal command %s was rejected", cmd))
	}

	u := Update{Player: player, Command: cmd, Result: result, Game: s.game}
	s.history = append(s.history, entry{update: u, undo: undo})
	s.publish(u)

	s.logger.Debug().Msgf("%s played %s", player, cmd)
	if s.game.Over() {
		s.logger.Info().Msgf("game over, %s wins after %d commands", s.game.Winner, len(s.history))
	}
	return u, nil
}

// Undo reverts the last command played.
func (s *Session) Undo() (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return Update{}, fmt.Errorf("undo: %w", ErrNothingToUndo)
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.game.Undo(last.undo)

	u := last.update
	u.Undone = true
	u.Game = s.game
	s.publish(u)
	return u, nil
}

// publish queues u, dropping the oldest unread update when the buffer is
// full.
func (s *Session) publish(u Update) {
	for {
		select {
		case s.updateCh <- u:
			return
		default:
		}
		select {
		case <-s.updateCh:
			s.logger.Warn().Msg("update buffer full, dropping oldest update")
		default:
		}
	}
}
