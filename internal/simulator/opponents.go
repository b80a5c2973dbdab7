package simulator

import (
	"fmt"

	"github.com/lox/pebbles/internal/game"
)

// Opponent plays the user's side of a simulated game
type Opponent interface {
	// Choose returns how many pebbles to take from s, in [1, MaxPebblesPerTurn]
	Choose(s *game.State) uint32
	Name() string
}

// RandomOpponent takes a uniformly random legal amount
type RandomOpponent struct {
	rng game.RandomSource
}

func (o RandomOpponent) Choose(s *game.State) uint32 {
	return o.rng.NextU32()%s.MaxPebblesPerTurn + 1
}

func (RandomOpponent) Name() string { return "random" }

// GreedyOpponent always takes as many pebbles as allowed
type GreedyOpponent struct{}

func (GreedyOpponent) Choose(s *game.State) uint32 {
	return s.MaxPebblesPerTurn
}

func (GreedyOpponent) Name() string { return "greedy" }

// OptimalOpponent plays the same perfect strategy as the hard program
type OptimalOpponent struct{}

func (OptimalOpponent) Choose(s *game.State) uint32 {
	return game.OptimalAmount(s.PebblesRemaining, s.MaxPebblesPerTurn)
}

func (OptimalOpponent) Name() string { return "optimal" }

// OpponentTypes lists the names accepted by NewOpponent
var OpponentTypes = []string{"random", "greedy", "optimal"}

// mixedOpponentTypes is the fixed rotation used by the "mixed" opponent
func mixedOpponentTypes() []string {
	return []string{"optimal", "random", "greedy", "random"}
}

// NewOpponent creates an opponent of the specified type. Random opponents draw
// from rng.
func NewOpponent(opponentType string, rng game.RandomSource) (Opponent, error) {
	switch opponentType {
	case "random":
		return RandomOpponent{rng: rng}, nil
	case "greedy":
		return GreedyOpponent{}, nil
	case "optimal":
		return OptimalOpponent{}, nil
	default:
		return nil, fmt.Errorf("unknown opponent type: %q", opponentType)
	}
}
