package main

import (
	"context"
	"os"
	"time"

	"github.com/lox/pebbles/internal/server"
)

// ServerCmd runs the WebSocket game server
type ServerCmd struct {
	Config      string `short:"c" default:"pebbles-server.hcl" help:"Path to HCL configuration file"`
	Addr        string `short:"a" help:"Address to bind to (overrides config)"`
	Port        int    `short:"p" help:"Port to listen on (overrides config)"`
	LogLevel    string `short:"l" help:"Log level (overrides config)"`
	IdleTimeout *int   `help:"Seconds before an idle connection is closed, 0 disables (overrides config)"`
	Seed        *int64 `help:"Deterministic seed for game entropy (overrides config)"`
}

func (c *ServerCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	logger, err := setupLogger(os.Stderr, cfg.Server.LogLevel)
	if err != nil {
		return err
	}

	if cfg.Server.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *cfg.Server.Seed)
	}

	s := server.NewServer(cfg.GetServerAddress(), logger, cfg.Options()...)

	logger.Info("Starting pebbles server",
		"addr", cfg.GetServerAddress(),
		"idleTimeout", cfg.GetIdleTimeout(),
		"config", c.Config)

	// Setup graceful shutdown
	ctx := setupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- s.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

// load reads the config file and applies command line overrides
func (c *ServerCmd) load() (*server.ServerConfig, error) {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return nil, err
	}

	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.IdleTimeout != nil {
		cfg.Server.IdleTimeout = *c.IdleTimeout
	}
	if c.Seed != nil {
		cfg.Server.Seed = c.Seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
