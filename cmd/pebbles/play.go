package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/pebbles/internal/client"
	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/randutil"
	"github.com/lox/pebbles/internal/session"
	"github.com/lox/pebbles/internal/tui"
)

// GameFlags override the game block of the client configuration
type GameFlags struct {
	Pebbles    int    `short:"n" help:"Pebbles in the pile (overrides config)"`
	Max        int    `short:"m" help:"Most pebbles per turn (overrides config)"`
	Difficulty string `short:"d" help:"Program difficulty: easy or hard (overrides config)"`
}

// UIFlags override the ui block of the client configuration
type UIFlags struct {
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	LogFile  string `help:"Log file path (overrides config)"`
	NoColor  bool   `help:"Disable colours"`
}

// loadClientConfig loads path and applies the game and UI overrides
func loadClientConfig(path string, g GameFlags, ui UIFlags) (*client.ClientConfig, error) {
	cfg, err := client.LoadClientConfig(path)
	if err != nil {
		return nil, err
	}

	if g.Pebbles != 0 {
		cfg.Game.PebblesCount = g.Pebbles
	}
	if g.Max != 0 {
		cfg.Game.MaxPebblesPerTurn = g.Max
	}
	if g.Difficulty != "" {
		cfg.Game.Difficulty = g.Difficulty
	}
	if ui.LogLevel != "" {
		cfg.UI.LogLevel = ui.LogLevel
	}
	if ui.LogFile != "" {
		cfg.UI.LogFile = ui.LogFile
	}
	if ui.NoColor {
		cfg.UI.NoColor = true
	}

	return cfg, cfg.Validate()
}

// PlayCmd plays against a local program without a server
type PlayCmd struct {
	Config string `short:"c" default:"pebbles-client.hcl" help:"Path to HCL configuration file"`
	Seed   *int64 `help:"Deterministic seed for game entropy"`
	GameFlags `embed:""`
	UIFlags   `embed:""`
}

func (c *PlayCmd) Run() error {
	cfg, err := loadClientConfig(c.Config, c.GameFlags, c.UIFlags)
	if err != nil {
		return err
	}

	return runTUI(cfg, func(logger *log.Logger) (tui.Backend, func(), error) {
		var rng game.RandomSource = randutil.Crypto()
		if c.Seed != nil {
			rng = randutil.Seeded(*c.Seed)
		}

		sess := session.New(rng, logger)
		logger.Info("Starting local game", "session", sess.ID())
		return sess, func() {}, nil
	})
}

// runTUI sets up file logging and runs the terminal UI against the backend
// returned by connect
func runTUI(cfg *client.ClientConfig, connect func(*log.Logger) (tui.Backend, func(), error)) error {
	gameCfg, err := cfg.GameConfig()
	if err != nil {
		return err
	}

	logFile, err := openLogFile(cfg.UI.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger, err := setupLogger(logFile, cfg.UI.LogLevel)
	if err != nil {
		return err
	}

	if cfg.UI.NoColor {
		tui.DisableColor()
	}

	backend, cleanup, err := connect(logger)
	if err != nil {
		return err
	}
	defer cleanup()

	model := tui.NewTUIModel(backend, gameCfg, logger)
	model.AddLogEntry("=== Pebbles ===")
	model.AddLogEntry("Take turns removing pebbles. Whoever takes the last one wins.")
	model.AddLogEntry("Type 'help' for commands.")

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
