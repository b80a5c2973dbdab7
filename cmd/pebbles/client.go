package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/pebbles/internal/client"
	"github.com/lox/pebbles/internal/tui"
)

// ClientCmd plays on a pebbles server
type ClientCmd struct {
	Config string `short:"c" default:"pebbles-client.hcl" help:"Path to HCL configuration file"`
	Server string `short:"s" help:"Server URL to connect to (overrides config)"`
	GameFlags `embed:""`
	UIFlags   `embed:""`
}

func (c *ClientCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	return runTUI(cfg, func(logger *log.Logger) (tui.Backend, func(), error) {
		logger.Info("Starting pebbles client", "server", cfg.Server.URL, "config", c.Config)

		wsClient := client.NewClient(cfg.Server.URL, logger)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.GetConnectTimeout())
		defer cancel()
		if err := wsClient.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to %s: %w", cfg.Server.URL, err)
		}

		cleanup := func() { _ = wsClient.Disconnect() }
		return tui.Remote(wsClient, cfg.GetRequestTimeout()), cleanup, nil
	})
}

func (c *ClientCmd) load() (*client.ClientConfig, error) {
	cfg, err := loadClientConfig(c.Config, c.GameFlags, c.UIFlags)
	if err != nil {
		return nil, err
	}
	if c.Server != "" {
		cfg.Server.URL = c.Server
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
