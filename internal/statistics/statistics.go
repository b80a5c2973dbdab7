// Package statistics tallies the results of simulated pebbles games.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/pebbles/internal/game"
)

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed        int64       // Seed of the game's entropy source (for replay)
	FirstPlayer game.Player // Who opened
	Winner      game.Player
	Moves       int // Moves applied by both sides
}

// OpeningStats tracks games grouped by who moved first
type OpeningStats struct {
	Games       int
	WonByOpener int
}

// Tally aggregates game results. The zero value is ready to use.
type Tally struct {
	Games   int
	Wins    [2]int          // Indexed by game.Player
	Opening [2]OpeningStats // Indexed by the first mover

	SumMoves int
	Lengths  []int // Moves per game, for median/percentile calculation
}

// Add incorporates a new game result into the tally
func (t *Tally) Add(result GameResult) {
	t.Games++
	t.Wins[result.Winner]++

	t.Opening[result.FirstPlayer].Games++
	if result.Winner == result.FirstPlayer {
		t.Opening[result.FirstPlayer].WonByOpener++
	}

	t.SumMoves += result.Moves
	t.Lengths = append(t.Lengths, result.Moves)
}

// Merge folds other into t
func (t *Tally) Merge(other *Tally) {
	t.Games += other.Games
	for p := range t.Wins {
		t.Wins[p] += other.Wins[p]
		t.Opening[p].Games += other.Opening[p].Games
		t.Opening[p].WonByOpener += other.Opening[p].WonByOpener
	}
	t.SumMoves += other.SumMoves
	t.Lengths = append(t.Lengths, other.Lengths...)
}

// WinRate returns the fraction of games won by p
func (t *Tally) WinRate(p game.Player) float64 {
	if t.Games == 0 {
		return 0
	}
	return float64(t.Wins[p]) / float64(t.Games)
}

// StdError returns the standard error of p's win rate
func (t *Tally) StdError(p game.Player) float64 {
	if t.Games == 0 {
		return 0
	}
	rate := t.WinRate(p)
	return math.Sqrt(rate * (1 - rate) / float64(t.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for p's win rate,
// clipped to [0, 1]
func (t *Tally) ConfidenceInterval95(p game.Player) (float64, float64) {
	rate := t.WinRate(p)
	margin := 1.96 * t.StdError(p) // 95% confidence
	return math.Max(0, rate-margin), math.Min(1, rate+margin)
}

// OpenerWinRate returns how often the first mover won the games opened by p
func (t *Tally) OpenerWinRate(p game.Player) float64 {
	o := t.Opening[p]
	if o.Games == 0 {
		return 0
	}
	return float64(o.WonByOpener) / float64(o.Games)
}

// MeanMoves returns the average game length in moves
func (t *Tally) MeanMoves() float64 {
	if t.Games == 0 {
		return 0
	}
	return float64(t.SumMoves) / float64(t.Games)
}

// MedianMoves returns the median game length in moves
func (t *Tally) MedianMoves() float64 {
	return t.Percentile(0.5)
}

// Percentile returns the game length at the given percentile (0.0 to 1.0)
func (t *Tally) Percentile(p float64) float64 {
	if len(t.Lengths) == 0 {
		return 0
	}
	sorted := make([]int, len(t.Lengths))
	copy(sorted, t.Lengths)
	sort.Ints(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return float64(sorted[len(sorted)-1])
	}

	weight := index - float64(lower)
	return float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight
}

// Validate checks that the counters agree with each other
func (t *Tally) Validate() error {
	if t.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", t.Games)
	}

	if wins := t.Wins[game.Program] + t.Wins[game.User]; wins != t.Games {
		return fmt.Errorf("wins (%d) do not match games (%d)", wins, t.Games)
	}

	if opened := t.Opening[game.Program].Games + t.Opening[game.User].Games; opened != t.Games {
		return fmt.Errorf("openings (%d) do not match games (%d)", opened, t.Games)
	}

	if len(t.Lengths) != t.Games {
		return fmt.Errorf("lengths array length (%d) does not match games count (%d)",
			len(t.Lengths), t.Games)
	}

	return nil
}
