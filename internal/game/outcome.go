package game

import (
	"encoding/json"
	"fmt"
)

// OutcomeType identifies what an operation ended with
type OutcomeType string

const (
	OutcomeWon         OutcomeType = "won"
	OutcomeCounterTurn OutcomeType = "counter_turn"
)

// String returns the string representation of the outcome type
func (ot OutcomeType) String() string {
	return string(ot)
}

// Outcome is the result of a move: either a win, or the amount just removed
// while the game carries on.
type Outcome struct {
	Type   OutcomeType
	Winner Player // set for OutcomeWon
	Amount uint32 // set for OutcomeCounterTurn
}

// Won returns a winning outcome for p
func Won(p Player) Outcome {
	return Outcome{Type: OutcomeWon, Winner: p}
}

// CounterTurn returns a continuing outcome that reports amount removed
func CounterTurn(amount uint32) Outcome {
	return Outcome{Type: OutcomeCounterTurn, Amount: amount}
}

// IsWon reports whether the outcome ended the game
func (o Outcome) IsWon() bool {
	return o.Type == OutcomeWon
}

func (o Outcome) String() string {
	switch o.Type {
	case OutcomeWon:
		return fmt.Sprintf("won(%s)", o.Winner)
	case OutcomeCounterTurn:
		return fmt.Sprintf("counter_turn(%d)", o.Amount)
	default:
		return "unknown"
	}
}

type outcomeJSON struct {
	Type   OutcomeType `json:"type"`
	Winner *Player     `json:"winner,omitempty"`
	Amount *uint32     `json:"amount,omitempty"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{Type: o.Type}
	switch o.Type {
	case OutcomeWon:
		w := o.Winner
		out.Winner = &w
	case OutcomeCounterTurn:
		a := o.Amount
		out.Amount = &a
	default:
		return nil, fmt.Errorf("game: invalid outcome type %q", o.Type)
	}
	return json.Marshal(out)
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var in outcomeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Type {
	case OutcomeWon:
		if in.Winner == nil {
			return fmt.Errorf("game: won outcome without winner")
		}
		*o = Won(*in.Winner)
	case OutcomeCounterTurn:
		if in.Amount == nil {
			return fmt.Errorf("game: counter_turn outcome without amount")
		}
		*o = CounterTurn(*in.Amount)
	default:
		return fmt.Errorf("game: invalid outcome type %q", in.Type)
	}
	return nil
}
