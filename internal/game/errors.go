package game

import "errors"

var (
	// ErrInvalidConfig is returned when the pile size or the per-turn limit is zero
	ErrInvalidConfig = errors.New("game: invalid config")

	// ErrInvalidMove is returned for a human move outside [1, MaxPebblesPerTurn]
	ErrInvalidMove = errors.New("game: invalid move")

	// ErrGameFinished is returned for turns or give-ups after the game has a winner
	ErrGameFinished = errors.New("game: already finished")
)
