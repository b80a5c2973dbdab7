package game

import "fmt"

// Initialize validates cfg and starts a new game. One draw from rng decides the
// first mover: even for the Program, odd for the User. When the Program moves
// first its opening move is already applied to the returned state, which may
// then already be won.
func Initialize(cfg Config, rng RandomSource) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	first := User
	if rng.NextU32()%2 == 0 {
		first = Program
	}

	s := &State{
		PebblesCount:      cfg.PebblesCount,
		MaxPebblesPerTurn: cfg.MaxPebblesPerTurn,
		PebblesRemaining:  cfg.PebblesCount,
		Difficulty:        cfg.Difficulty,
		FirstPlayer:       first,
	}

	if first == Program {
		programTurn(s, rng)
	}
	return s, nil
}

// Restart discards any previous game and starts a new one from cfg
func Restart(cfg Config, rng RandomSource) (*State, error) {
	return Initialize(cfg, rng)
}

// ApplyMove removes amount pebbles on behalf of actor, flooring the pile at
// zero. Emptying the pile makes actor the winner. A finished game is never
// mutated; its existing result is returned instead.
func ApplyMove(s *State, amount uint32, actor Player) Outcome {
	if s.Winner != nil {
		return Won(*s.Winner)
	}

	removed := min(amount, s.PebblesRemaining)
	s.PebblesRemaining -= removed
	s.Moves = append(s.Moves, Move{Player: actor, Amount: removed, Remaining: s.PebblesRemaining})

	if s.PebblesRemaining == 0 {
		winner := actor
		s.Winner = &winner
		return Won(actor)
	}
	return CounterTurn(amount)
}

// HumanTurn applies the user's move. If the game continues, the program
// replies within the same call and the reply's outcome is returned. Amounts
// larger than the remaining pile are accepted and take the rest.
func HumanTurn(s *State, amount uint32, rng RandomSource) (Outcome, error) {
	if s.Winner != nil {
		return Outcome{}, ErrGameFinished
	}
	if amount == 0 || amount > s.MaxPebblesPerTurn {
		return Outcome{}, fmt.Errorf("%w: must take between 1 and %d pebbles, got %d", ErrInvalidMove, s.MaxPebblesPerTurn, amount)
	}

	outcome := ApplyMove(s, amount, User)
	if outcome.IsWon() {
		return outcome, nil
	}
	return programTurn(s, rng), nil
}

// GiveUp concedes the game to the program. The pile is left as it was.
func GiveUp(s *State) (Outcome, error) {
	if s.Winner != nil {
		return Outcome{}, ErrGameFinished
	}
	winner := Program
	s.Winner = &winner
	return Won(Program), nil
}

func programTurn(s *State, rng RandomSource) Outcome {
	amount := min(ChooseAmount(s, rng), s.PebblesRemaining)
	return ApplyMove(s, amount, Program)
}
