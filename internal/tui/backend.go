package tui

import (
	"context"
	"time"

	"github.com/lox/pebbles/internal/client"
	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/session"
)

// Backend is the game the TUI drives. *session.Session satisfies it for local
// play and Remote adapts a server connection.
type Backend interface {
	Init(cfg game.Config) (*game.State, error)
	Restart(cfg game.Config) (*game.State, error)
	Turn(amount uint32) (game.Outcome, error)
	GiveUp() (game.Outcome, error)
	State() (*game.State, error)
}

var _ Backend = (*session.Session)(nil)

// RemoteBackend adapts a connected client to Backend, bounding each request
// by a timeout
type RemoteBackend struct {
	client  *client.Client
	timeout time.Duration
}

// Remote creates a Backend that plays on the server c is connected to
func Remote(c *client.Client, timeout time.Duration) *RemoteBackend {
	return &RemoteBackend{client: c, timeout: timeout}
}

func (r *RemoteBackend) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *RemoteBackend) Init(cfg game.Config) (*game.State, error) {
	ctx, cancel := r.context()
	defer cancel()
	return r.client.Init(ctx, cfg)
}

func (r *RemoteBackend) Restart(cfg game.Config) (*game.State, error) {
	ctx, cancel := r.context()
	defer cancel()
	return r.client.Restart(ctx, cfg)
}

func (r *RemoteBackend) Turn(amount uint32) (game.Outcome, error) {
	ctx, cancel := r.context()
	defer cancel()
	return r.client.Turn(ctx, amount)
}

func (r *RemoteBackend) GiveUp() (game.Outcome, error) {
	ctx, cancel := r.context()
	defer cancel()
	return r.client.GiveUp(ctx)
}

func (r *RemoteBackend) State() (*game.State, error) {
	ctx, cancel := r.context()
	defer cancel()
	return r.client.State(ctx)
}
