// Package game implements the rules of Pebbles, a two-player subtraction game.
//
// Two sides, the Program and the User, take turns removing between 1 and
// MaxPebblesPerTurn pebbles from a shared pile. Whoever removes the last
// pebble wins.
//
// # Basic Usage
//
// Start a game and play a turn:
//
//	s, err := game.Initialize(game.Config{
//	    PebblesCount:      15,
//	    MaxPebblesPerTurn: 2,
//	    Difficulty:        game.Hard,
//	}, rng)
//	if err != nil {
//	    return err
//	}
//	outcome, err := game.HumanTurn(s, 2, rng)
//
// HumanTurn applies the user's move and, if the game is still running, the
// program's reply in the same call. The returned Outcome describes whatever
// happened last: either the program's reply (CounterTurn) or a win.
//
// # Deterministic Testing
//
// All entropy comes from a RandomSource. Inject a fixed source to make the
// first mover and Easy moves reproducible:
//
//	rng := randutil.Fixed(2) // even draw: Program moves first
//	s, _ := game.Initialize(cfg, rng)
//
// The package performs no I/O. Sessions, transports and logging live in
// other packages.
package game
