package main

import (
	"os"
	"time"

	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/simulator"
)

// SimulateCmd plays many games of the program against a scripted opponent
type SimulateCmd struct {
	Games      int           `default:"10000" help:"Number of games to play"`
	Pebbles    uint32        `short:"n" default:"15" help:"Pebbles in the pile"`
	Max        uint32        `short:"m" default:"2" help:"Most pebbles per turn"`
	Difficulty string        `short:"d" enum:"easy,hard" default:"hard" help:"Program difficulty"`
	Opponent   string        `short:"o" enum:"random,greedy,optimal,mixed" default:"random" help:"Opponent strategy"`
	Seed       *int64        `help:"Base seed, game i uses seed+i (defaults to the current time)"`
	Workers    int           `short:"w" help:"Parallel workers (defaults to CPU count)"`
	Timeout    time.Duration `default:"1m" help:"Abort the run after this long"`
	Output     string        `help:"Also write a JSON report to this path"`
	Debug      bool          `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	level := "info"
	if c.Debug {
		level = "debug"
	}
	logger, err := setupLogger(os.Stderr, level)
	if err != nil {
		return err
	}

	difficulty, err := game.ParseDifficulty(c.Difficulty)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	cfg := game.Config{
		PebblesCount:      c.Pebbles,
		MaxPebblesPerTurn: c.Max,
		Difficulty:        difficulty,
	}

	sim := simulator.New(simulator.Config{
		Games:        c.Games,
		Game:         cfg,
		OpponentType: c.Opponent,
		Seed:         seed,
		Workers:      c.Workers,
		Timeout:      c.Timeout,
		Logger:       logger,
	})

	ctx := setupSignalHandler(logger)

	start := time.Now()
	tally, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Simulation complete", "games", tally.Games, "seed", seed, "duration", time.Since(start))

	simulator.PrintSummary(os.Stdout, tally, cfg, sim.OpponentInfo())

	if c.Output != "" {
		if err := simulator.WriteReport(c.Output, simulator.NewReport(tally, cfg, sim.OpponentInfo(), seed)); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Output)
	}
	return nil
}
