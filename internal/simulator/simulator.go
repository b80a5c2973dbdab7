// Package simulator plays the program against scripted opponents to measure
// how each difficulty performs.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/randutil"
	"github.com/lox/pebbles/internal/statistics"
)

// Config holds configuration for running simulations
type Config struct {
	Games        int
	Game         game.Config
	OpponentType string // random, greedy, optimal or mixed
	Seed         int64
	Workers      int           // Zero uses the CPU count, capped at 8
	Timeout      time.Duration // Zero means no limit
	Logger       *log.Logger
}

// Simulator runs pebbles game simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

// OpponentInfo describes the configured opponent, expanding the mixed rotation
func (s *Simulator) OpponentInfo() string {
	if s.config.OpponentType == "mixed" {
		return fmt.Sprintf("mixed(%s)", strings.Join(mixedOpponentTypes(), ","))
	}
	return s.config.OpponentType
}

// opponentFor returns the opponent type used for the game with the given index
func (s *Simulator) opponentFor(index int) string {
	if s.config.OpponentType == "mixed" {
		mix := mixedOpponentTypes()
		return mix[index%len(mix)]
	}
	return s.config.OpponentType
}

// Run plays every game and returns the combined tally. Game i is seeded with
// Seed+i, so results do not depend on the worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Tally, error) {
	if s.config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", s.config.Games)
	}
	if err := s.config.Game.Validate(); err != nil {
		return nil, err
	}
	if s.config.OpponentType != "mixed" {
		if _, err := NewOpponent(s.config.OpponentType, nil); err != nil {
			return nil, err
		}
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	workers := s.config.Workers
	if workers <= 0 {
		workers = min(runtime.NumCPU(), 8)
	}
	workers = min(workers, s.config.Games)

	s.logger.Info("Starting simulation",
		"games", s.config.Games,
		"opponent", s.OpponentInfo(),
		"difficulty", s.config.Game.Difficulty,
		"workers", workers)

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan *statistics.Tally, workers)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			tally := &statistics.Tally{}

			// Workers stride through the game indices
			for i := w; i < s.config.Games; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}

				result, err := s.playGame(i)
				if err != nil {
					return err
				}
				tally.Add(result)
			}

			s.logger.Debug("Worker finished", "worker", w, "games", tally.Games)

			select {
			case results <- tally:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		_ = g.Wait()
	}()

	total := &statistics.Tally{}
	for tally := range results {
		total.Merge(tally)
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulation aborted: %w", err)
	}

	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	return total, nil
}

// playGame plays game index to completion
func (s *Simulator) playGame(index int) (statistics.GameResult, error) {
	seed := s.config.Seed + int64(index)
	rng := randutil.Seeded(seed)

	opponent, err := NewOpponent(s.opponentFor(index), rng)
	if err != nil {
		return statistics.GameResult{}, err
	}

	result, err := PlayGame(s.config.Game, opponent, rng)
	if err != nil {
		return statistics.GameResult{}, fmt.Errorf("game %d (seed %d): %w", index, seed, err)
	}
	result.Seed = seed
	return result, nil
}

// PlayGame plays one game of the program against opponent, which takes the
// user's side
func PlayGame(cfg game.Config, opponent Opponent, rng game.RandomSource) (statistics.GameResult, error) {
	state, err := game.Initialize(cfg, rng)
	if err != nil {
		return statistics.GameResult{}, err
	}

	for !state.IsFinished() {
		if _, err := game.HumanTurn(state, opponent.Choose(state), rng); err != nil {
			return statistics.GameResult{}, fmt.Errorf("%s opponent: %w", opponent.Name(), err)
		}
	}

	return statistics.GameResult{
		FirstPlayer: state.FirstPlayer,
		Winner:      *state.Winner,
		Moves:       len(state.Moves),
	}, nil
}

// PrintSummary writes a summary of simulation results to w
func PrintSummary(w io.Writer, tally *statistics.Tally, cfg game.Config, opponentInfo string) {
	low, high := tally.ConfidenceInterval95(game.Program)

	fmt.Fprintf(w, "\n=== RESULTS: %s program vs %s opponent ===\n", cfg.Difficulty, opponentInfo)
	fmt.Fprintf(w, "Games played: %d (%d pebbles, take 1-%d)\n", tally.Games, cfg.PebblesCount, cfg.MaxPebblesPerTurn)

	fmt.Fprintf(w, "\n=== WIN RATES ===\n")
	fmt.Fprintf(w, "Program: %d wins (%.1f%%)\n", tally.Wins[game.Program], tally.WinRate(game.Program)*100)
	fmt.Fprintf(w, "User:    %d wins (%.1f%%)\n", tally.Wins[game.User], tally.WinRate(game.User)*100)
	fmt.Fprintf(w, "Program 95%% CI: [%.1f%%, %.1f%%]\n", low*100, high*100)

	fmt.Fprintf(w, "\n=== FIRST MOVER ===\n")
	for _, p := range []game.Player{game.Program, game.User} {
		o := tally.Opening[p]
		if o.Games > 0 {
			fmt.Fprintf(w, "%s opened %d games, opener won %.1f%%\n", p, o.Games, tally.OpenerWinRate(p)*100)
		}
	}

	fmt.Fprintf(w, "\n=== GAME LENGTH ===\n")
	fmt.Fprintf(w, "Mean: %.2f moves, median: %.1f, P95: %.1f\n",
		tally.MeanMoves(), tally.MedianMoves(), tally.Percentile(0.95))
}
