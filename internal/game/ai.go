package game

// RandomSource supplies uniformly distributed 32-bit values. Implementations
// must return a fresh draw on every call.
type RandomSource interface {
	NextU32() uint32
}

// ChooseAmount picks how many pebbles the program takes under the game's
// difficulty. The result is always in [1, MaxPebblesPerTurn]; callers clamp it
// to PebblesRemaining.
func ChooseAmount(s *State, rng RandomSource) uint32 {
	limit := s.MaxPebblesPerTurn
	switch s.Difficulty {
	case Hard:
		return OptimalAmount(s.PebblesRemaining, limit)
	default:
		return rng.NextU32()%limit + 1
	}
}

// OptimalAmount is the Hard policy. It leaves the opponent on a multiple of
// limit+1, the losing residue for a subtraction game with moves 1..limit.
// From a losing position it takes a single pebble.
func OptimalAmount(remaining, limit uint32) uint32 {
	// limit+1 overflows uint32 when limit is MaxUint32
	optimal := uint64(remaining) % (uint64(limit) + 1)
	if optimal == 0 {
		return 1
	}
	return uint32(optimal)
}

// IsLosingPosition reports whether the side to move loses against perfect play
func IsLosingPosition(remaining, limit uint32) bool {
	return uint64(remaining)%(uint64(limit)+1) == 0
}
