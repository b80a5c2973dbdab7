package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pebbles/internal/game"
)

func TestParseCommand(t *testing.T) {
	hard := game.Hard
	easy := game.Easy

	tests := []struct {
		input   string
		want    Command
		wantErr bool
	}{
		{input: "", want: Command{Kind: CommandNone}},
		{input: "   ", want: Command{Kind: CommandNone}},
		{input: "2", want: Command{Kind: CommandTake, Amount: 2}},
		{input: "0", want: Command{Kind: CommandTake, Amount: 0}},
		{input: "take 3", want: Command{Kind: CommandTake, Amount: 3}},
		{input: "TAKE 1", want: Command{Kind: CommandTake, Amount: 1}},
		{input: "take", wantErr: true},
		{input: "take x", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "99999999999", wantErr: true},
		{input: "give up", want: Command{Kind: CommandGiveUp}},
		{input: "giveup", want: Command{Kind: CommandGiveUp}},
		{input: "give", wantErr: true},
		{input: "restart", want: Command{Kind: CommandRestart}},
		{input: "restart hard", want: Command{Kind: CommandRestart, Difficulty: &hard}},
		{input: "restart easy 20", want: Command{Kind: CommandRestart, Difficulty: &easy, PebblesCount: 20}},
		{input: "restart 20 4", want: Command{Kind: CommandRestart, PebblesCount: 20, MaxPerTurn: 4}},
		{input: "restart 20 hard", wantErr: true},
		{input: "restart 1 2 3", wantErr: true},
		{input: "restart 0", wantErr: true},
		{input: "state", want: Command{Kind: CommandState}},
		{input: "help", want: Command{Kind: CommandHelp}},
		{input: "?", want: Command{Kind: CommandHelp}},
		{input: "quit", want: Command{Kind: CommandQuit}},
		{input: "dance", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCommand(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandApply(t *testing.T) {
	base := game.Config{PebblesCount: 15, MaxPebblesPerTurn: 2, Difficulty: game.Easy}

	cmd, err := ParseCommand("restart hard 30")
	require.NoError(t, err)
	assert.Equal(t, game.Config{PebblesCount: 30, MaxPebblesPerTurn: 2, Difficulty: game.Hard}, cmd.Apply(base))

	cmd, err = ParseCommand("restart")
	require.NoError(t, err)
	assert.Equal(t, base, cmd.Apply(base))
}
