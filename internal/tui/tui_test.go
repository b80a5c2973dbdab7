package tui

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pebbles/internal/client"
	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/randutil"
	"github.com/lox/pebbles/internal/server"
	"github.com/lox/pebbles/internal/session"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests
}

var hard15 = game.Config{PebblesCount: 15, MaxPebblesPerTurn: 2, Difficulty: game.Hard}

// localModel returns a test-mode model whose games always let the user open
func localModel(t *testing.T, cfg game.Config) *TUIModel {
	t.Helper()
	sess := session.New(randutil.Fixed(1), quietLogger())
	m := NewTUIModelWithOptions(sess, cfg, quietLogger(), true)
	deliver(t, m, m.startGame(CommandNone, cfg))
	return m
}

// deliver runs cmd synchronously and feeds its message back into the model
func deliver(t *testing.T, m *TUIModel, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

// submit types input and waits for any resulting backend call
func submit(t *testing.T, m *TUIModel, input string) {
	t.Helper()
	if cmd := m.processAction(input); cmd != nil {
		deliver(t, m, cmd)
	}
}

func TestTUITestMode(t *testing.T) {
	t.Run("test mode captures log entries", func(t *testing.T) {
		m := NewTUIModelWithOptions(session.New(randutil.Fixed(1), quietLogger()), hard15, quietLogger(), true)

		assert.True(t, m.IsTestMode())
		assert.Empty(t, m.GetCapturedLog())

		m.AddLogEntry("first")
		m.AddLogEntry("second")
		assert.Equal(t, []string{"first", "second"}, m.GetCapturedLog())
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		m := NewTUIModel(session.New(randutil.Fixed(1), quietLogger()), hard15, quietLogger())

		assert.False(t, m.IsTestMode())
		m.AddLogEntry("Some log entry")
		assert.Nil(t, m.GetCapturedLog())
	})
}

func TestTUIGameAgainstLocalSession(t *testing.T) {
	m := localModel(t, hard15)

	require.NotNil(t, m.State())
	assert.Equal(t, game.User, m.State().FirstPlayer)
	assert.Contains(t, m.GetCapturedLog(), " New game: 15 pebbles, take 1 to 2 per turn, hard ")
	assert.Contains(t, m.GetCapturedLog(), "You go first")

	// 15 -> 13, the program answers 1 to leave a multiple of 3
	submit(t, m, "2")
	entries := m.GetCapturedLog()
	assert.Equal(t, []string{
		"> take 2",
		"You take 2, 13 left",
		"The program takes 1, 12 left",
	}, entries[len(entries)-3:])
	assert.Equal(t, uint32(12), m.State().PebblesRemaining)

	submit(t, m, "take 3")
	entries = m.GetCapturedLog()
	assert.Equal(t, "You must take between 1 and 2 pebbles", entries[len(entries)-1])
	assert.Equal(t, uint32(12), m.State().PebblesRemaining)

	submit(t, m, "state")
	entries = m.GetCapturedLog()
	assert.Equal(t, "12 of 15 pebbles left, take 1 to 2", entries[len(entries)-1])

	submit(t, m, "give up")
	entries = m.GetCapturedLog()
	assert.Equal(t, []string{
		"> give up",
		"You gave up",
		"The program wins",
		"Type 'restart' to play again",
	}, entries[len(entries)-4:])
	require.NotNil(t, m.State().Winner)
	assert.Equal(t, game.Program, *m.State().Winner)

	submit(t, m, "1")
	entries = m.GetCapturedLog()
	assert.Equal(t, "The game is over, type 'restart' to play again", entries[len(entries)-1])

	submit(t, m, "restart 4 5")
	assert.Equal(t, game.Config{PebblesCount: 4, MaxPebblesPerTurn: 5, Difficulty: game.Hard}, m.State().Config())
	assert.Nil(t, m.State().Winner)

	submit(t, m, "4")
	entries = m.GetCapturedLog()
	assert.Equal(t, []string{
		"You take 4, 0 left",
		"You win!",
		"Type 'restart' to play again",
	}, entries[len(entries)-3:])
}

func TestTUIProgramOpens(t *testing.T) {
	// An even draw hands the opening to the program, which clears a pile it can reach
	sess := session.New(randutil.Fixed(0), quietLogger())
	m := NewTUIModelWithOptions(sess, game.Config{PebblesCount: 2, MaxPebblesPerTurn: 3, Difficulty: game.Hard}, quietLogger(), true)
	deliver(t, m, m.startGame(CommandNone, m.config))

	entries := m.GetCapturedLog()
	assert.Equal(t, []string{
		"The program goes first",
		"The program takes 2, 0 left",
		"The program wins",
		"Type 'restart' to play again",
	}, entries[len(entries)-4:])
}

func TestTUICommandsWithoutBackendCall(t *testing.T) {
	m := localModel(t, hard15)
	before := len(m.GetCapturedLog())

	assert.Nil(t, m.processAction(""))
	assert.Len(t, m.GetCapturedLog(), before)

	assert.Nil(t, m.processAction("help"))
	assert.Equal(t, helpLines, m.GetCapturedLog()[before:])

	assert.Nil(t, m.processAction("dance"))
	entries := m.GetCapturedLog()
	assert.Contains(t, entries[len(entries)-1], "unknown command")

	assert.NotNil(t, m.processAction("quit"))
	assert.True(t, m.Quitting())
	assert.Equal(t, "", m.View())
}

func TestTUIBusyRejectsInput(t *testing.T) {
	m := localModel(t, hard15)

	cmd := m.processAction("1")
	require.NotNil(t, cmd)

	assert.Nil(t, m.processAction("2"))
	entries := m.GetCapturedLog()
	assert.Equal(t, "Still waiting for the last move", entries[len(entries)-1])

	// 15 -> 14, the program takes 2
	m.Update(cmd())
	assert.Equal(t, uint32(12), m.State().PebblesRemaining)
}

func TestTUIInvalidRestartKeepsGame(t *testing.T) {
	m := localModel(t, hard15)

	submit(t, m, "restart hard 0")
	entries := m.GetCapturedLog()
	assert.Contains(t, entries[len(entries)-1], "not a positive number")

	m.config.MaxPebblesPerTurn = 0
	deliver(t, m, m.startGame(CommandRestart, m.config))
	entries = m.GetCapturedLog()
	assert.Equal(t, "Both pebble counts must be at least 1", entries[len(entries)-1])
	assert.Equal(t, hard15, m.State().Config())
}

func TestTUIRestartWithoutGameStartsOne(t *testing.T) {
	sess := session.New(randutil.Fixed(1), quietLogger())
	bad := game.Config{PebblesCount: 15, MaxPebblesPerTurn: 0, Difficulty: game.Hard}
	m := NewTUIModelWithOptions(sess, bad, quietLogger(), true)
	deliver(t, m, m.startGame(CommandNone, bad))
	require.Nil(t, m.State())

	submit(t, m, "restart hard 15 2")
	require.NotNil(t, m.State())
	assert.Equal(t, hard15, m.State().Config())

	state, err := sess.State()
	require.NoError(t, err)
	assert.Equal(t, uint32(15), state.PebblesRemaining)
}

func TestTUIView(t *testing.T) {
	m := localModel(t, hard15)
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	assert.Contains(t, view, "Pile: 15 / 15")
	assert.Contains(t, view, "Your move")
}

func TestTUIAgainstRemoteServer(t *testing.T) {
	srv := server.NewServer("", quietLogger(), server.WithRandSource(func() game.RandomSource {
		return randutil.Fixed(1)
	}))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c := client.NewClient(ts.URL, quietLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(func() { _ = c.Disconnect() })

	m := NewTUIModelWithOptions(Remote(c, 5*time.Second), hard15, quietLogger(), true)
	deliver(t, m, m.startGame(CommandNone, hard15))
	assert.Contains(t, m.GetCapturedLog(), "You go first")

	submit(t, m, "2")
	assert.Equal(t, uint32(12), m.State().PebblesRemaining)

	submit(t, m, "3")
	entries := m.GetCapturedLog()
	assert.Equal(t, "You must take between 1 and 2 pebbles", entries[len(entries)-1])

	submit(t, m, "give up")
	require.NotNil(t, m.State().Winner)
	assert.Equal(t, game.Program, *m.State().Winner)
}
