// Package session holds the single game owned by one player connection.
//
// A Session replaces a process-wide game slot: the boundary layer creates one
// per connection (or per local run) and every operation goes through it.
package session

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/pebbles/internal/game"
)

// ErrNotInitialized is returned for any operation other than Init before the
// first successful Init
var ErrNotInitialized = errors.New("session: game not initialized")

// Session owns at most one game at a time
type Session struct {
	id     string
	rng    game.RandomSource
	logger *log.Logger

	mu    sync.Mutex
	state *game.State
}

// New creates an empty session drawing entropy from rng
func New(rng game.RandomSource, logger *log.Logger) *Session {
	id := uuid.Must(uuid.NewV7()).String()
	return &Session{
		id:     id,
		rng:    rng,
		logger: logger.WithPrefix("session").With("session", id),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Init starts a game, replacing any previous one. An invalid config leaves
// the session untouched.
func (s *Session) Init(cfg game.Config) (*game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.start(cfg, game.Initialize)
}

// Restart replaces the current game with a new one built from cfg. It needs a
// prior Init.
func (s *Session) Restart(cfg game.Config) (*game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, ErrNotInitialized
	}
	s.logger.Info("Restarting game")
	return s.start(cfg, game.Restart)
}

// start builds a game with newGame and installs it. Callers hold s.mu.
func (s *Session) start(cfg game.Config, newGame func(game.Config, game.RandomSource) (*game.State, error)) (*game.State, error) {
	state, err := newGame(cfg, s.rng)
	if err != nil {
		s.logger.Warn("Rejected game config", "error", err)
		return nil, err
	}
	s.state = state

	s.logger.Info("Game initialized",
		"pebbles", cfg.PebblesCount,
		"maxPerTurn", cfg.MaxPebblesPerTurn,
		"difficulty", cfg.Difficulty,
		"first", state.FirstPlayer)
	s.logMoves(0)
	s.logResult()

	return state.Clone(), nil
}

// Turn plays the user's move and the program's reply
func (s *Session) Turn(amount uint32) (game.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return game.Outcome{}, ErrNotInitialized
	}

	seen := len(s.state.Moves)
	outcome, err := game.HumanTurn(s.state, amount, s.rng)
	if err != nil {
		s.logger.Warn("Rejected turn", "amount", amount, "error", err)
		return game.Outcome{}, err
	}

	s.logMoves(seen)
	s.logResult()
	return outcome, nil
}

// GiveUp concedes the current game to the program
func (s *Session) GiveUp() (game.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return game.Outcome{}, ErrNotInitialized
	}

	outcome, err := game.GiveUp(s.state)
	if err != nil {
		s.logger.Warn("Rejected give up", "error", err)
		return game.Outcome{}, err
	}

	s.logger.Info("User gave up", "remaining", s.state.PebblesRemaining)
	return outcome, nil
}

// State returns a snapshot of the current game
func (s *Session) State() (*game.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, ErrNotInitialized
	}
	return s.state.Clone(), nil
}

// logMoves writes every move after index from to the debug log
func (s *Session) logMoves(from int) {
	for _, m := range s.state.Moves[from:] {
		s.logger.Debug("Move", "player", m.Player, "amount", m.Amount, "remaining", m.Remaining)
	}
}

func (s *Session) logResult() {
	if s.state.Winner != nil {
		s.logger.Info("Game finished", "winner", *s.state.Winner, "moves", len(s.state.Moves))
	}
}
