package game

import (
	"fmt"
	"strings"
)

// Player identifies one side of the game
type Player int

const (
	Program Player = iota
	User
)

// String returns the string representation of the player
func (p Player) String() string {
	switch p {
	case Program:
		return "program"
	case User:
		return "user"
	default:
		return "unknown"
	}
}

// Opponent returns the other side
func (p Player) Opponent() Player {
	if p == Program {
		return User
	}
	return Program
}

func (p Player) MarshalText() ([]byte, error) {
	if p != Program && p != User {
		return nil, fmt.Errorf("game: invalid player %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "program":
		*p = Program
	case "user":
		*p = User
	default:
		return fmt.Errorf("game: invalid player %q", string(text))
	}
	return nil
}

// Difficulty selects the program's strategy
type Difficulty int

const (
	Easy Difficulty = iota
	Hard
)

// String returns the string representation of the difficulty
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses "easy" or "hard", ignoring case and surrounding space
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "hard":
		return Hard, nil
	default:
		return Easy, fmt.Errorf("game: unknown difficulty %q", s)
	}
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if d != Easy && d != Hard {
		return nil, fmt.Errorf("game: invalid difficulty %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
