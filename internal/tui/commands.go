package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/pebbles/internal/game"
)

// CommandKind identifies what the player asked for
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandTake
	CommandGiveUp
	CommandRestart
	CommandState
	CommandHelp
	CommandQuit
)

// Command is one parsed line of player input
type Command struct {
	Kind   CommandKind
	Amount uint32

	// Restart overrides, zero values keep the current settings
	Difficulty   *game.Difficulty
	PebblesCount uint32
	MaxPerTurn   uint32
}

// ErrUnknownCommand is returned for input that matches no command
var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand parses a line typed into the action input
func ParseCommand(input string) (Command, error) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return Command{Kind: CommandNone}, nil
	}

	action, args := parts[0], parts[1:]

	// A bare number is shorthand for take
	if _, err := strconv.ParseUint(action, 10, 64); err == nil && len(args) == 0 {
		return parseTake(action)
	}

	switch action {
	case "take", "t":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: take <n>")
		}
		return parseTake(args[0])

	case "give", "giveup", "give_up", "forfeit":
		if action == "give" && (len(args) != 1 || args[0] != "up") {
			return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, input)
		}
		return Command{Kind: CommandGiveUp}, nil

	case "restart", "new":
		return parseRestart(args)

	case "state", "status", "s":
		return Command{Kind: CommandState}, nil

	case "help", "h", "?":
		return Command{Kind: CommandHelp}, nil

	case "quit", "exit", "q":
		return Command{Kind: CommandQuit}, nil
	}

	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, strings.TrimSpace(input))
}

func parseTake(arg string) (Command, error) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return Command{}, fmt.Errorf("not a pebble count: %s", arg)
	}
	return Command{Kind: CommandTake, Amount: uint32(n)}, nil
}

// parseRestart accepts an optional difficulty followed by up to two numbers:
// the pile size and the per-turn maximum
func parseRestart(args []string) (Command, error) {
	cmd := Command{Kind: CommandRestart}

	var numbers []uint32
	for _, arg := range args {
		if d, err := game.ParseDifficulty(arg); err == nil {
			if cmd.Difficulty != nil || len(numbers) > 0 {
				return Command{}, fmt.Errorf("usage: restart [easy|hard] [count] [max]")
			}
			cmd.Difficulty = &d
			continue
		}

		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil || n == 0 {
			return Command{}, fmt.Errorf("not a positive number: %s", arg)
		}
		numbers = append(numbers, uint32(n))
	}

	switch len(numbers) {
	case 0:
	case 1:
		cmd.PebblesCount = numbers[0]
	case 2:
		cmd.PebblesCount, cmd.MaxPerTurn = numbers[0], numbers[1]
	default:
		return Command{}, fmt.Errorf("usage: restart [easy|hard] [count] [max]")
	}

	return cmd, nil
}

// Apply returns base with the restart overrides of c applied
func (c Command) Apply(base game.Config) game.Config {
	cfg := base
	if c.Difficulty != nil {
		cfg.Difficulty = *c.Difficulty
	}
	if c.PebblesCount > 0 {
		cfg.PebblesCount = c.PebblesCount
	}
	if c.MaxPerTurn > 0 {
		cfg.MaxPebblesPerTurn = c.MaxPerTurn
	}
	return cfg
}

// helpLines lists the commands shown by help
var helpLines = []string{
	"Commands:",
	"  <n> or take <n>                  take n pebbles",
	"  give up                          concede the game",
	"  restart [easy|hard] [count] [max] start a new game",
	"  state                            show the pile",
	"  help                             show this help",
	"  quit                             leave",
}
