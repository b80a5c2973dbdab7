package game

import "fmt"

// Config describes a game to start
type Config struct {
	PebblesCount      uint32     `json:"pebblesCount"`
	MaxPebblesPerTurn uint32     `json:"maxPebblesPerTurn"`
	Difficulty        Difficulty `json:"difficulty"`
}

// Validate reports ErrInvalidConfig when either count is zero
func (c Config) Validate() error {
	if c.PebblesCount == 0 {
		return fmt.Errorf("%w: pebbles count must be positive", ErrInvalidConfig)
	}
	if c.MaxPebblesPerTurn == 0 {
		return fmt.Errorf("%w: max pebbles per turn must be positive", ErrInvalidConfig)
	}
	return nil
}

// Move is one entry in the game's move log
type Move struct {
	Player    Player `json:"player"`
	Amount    uint32 `json:"amount"`    // pebbles actually removed
	Remaining uint32 `json:"remaining"` // pile size after the move
}

// State is the record of a single game. PebblesCount, MaxPebblesPerTurn,
// Difficulty and FirstPlayer are fixed at initialization.
type State struct {
	PebblesCount      uint32     `json:"pebblesCount"`
	MaxPebblesPerTurn uint32     `json:"maxPebblesPerTurn"`
	PebblesRemaining  uint32     `json:"pebblesRemaining"`
	Difficulty        Difficulty `json:"difficulty"`
	FirstPlayer       Player     `json:"firstPlayer"`
	Winner            *Player    `json:"winner"`
	Moves             []Move     `json:"moves"`
}

// IsFinished reports whether the game has a winner
func (s *State) IsFinished() bool {
	return s.Winner != nil
}

// Config returns the configuration the game was started with
func (s *State) Config() Config {
	return Config{
		PebblesCount:      s.PebblesCount,
		MaxPebblesPerTurn: s.MaxPebblesPerTurn,
		Difficulty:        s.Difficulty,
	}
}

// Clone returns a deep copy that shares nothing with s
func (s *State) Clone() *State {
	c := *s
	if s.Winner != nil {
		w := *s.Winner
		c.Winner = &w
	}
	if s.Moves != nil {
		c.Moves = make([]Move, len(s.Moves))
		copy(c.Moves, s.Moves)
	}
	return &c
}

// String returns a short human readable summary
func (s *State) String() string {
	if s.Winner != nil {
		return fmt.Sprintf("%d/%d pebbles left, %s won", s.PebblesRemaining, s.PebblesCount, *s.Winner)
	}
	return fmt.Sprintf("%d/%d pebbles left, take 1-%d (%s)", s.PebblesRemaining, s.PebblesCount, s.MaxPebblesPerTurn, s.Difficulty)
}
