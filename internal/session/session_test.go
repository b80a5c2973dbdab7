package session

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/randutil"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
}

func TestSessionNotInitialized(t *testing.T) {
	s := New(randutil.Fixed(), testLogger())

	_, err := s.Turn(1)
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.GiveUp()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.State()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.Restart(game.Config{PebblesCount: 15, MaxPebblesPerTurn: 2})
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = s.State()
	assert.ErrorIs(t, err, ErrNotInitialized, "rejected restart must not create a game")
}

func TestSessionID(t *testing.T) {
	a := New(randutil.Fixed(), testLogger())
	b := New(randutil.Fixed(), testLogger())

	parsed, err := uuid.Parse(a.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSessionInvalidInitKeepsPreviousGame(t *testing.T) {
	s := New(randutil.Fixed(1), testLogger())

	_, err := s.Init(game.Config{})
	assert.ErrorIs(t, err, game.ErrInvalidConfig)
	_, err = s.State()
	assert.ErrorIs(t, err, ErrNotInitialized, "failed init must not create a game")

	first, err := s.Init(game.Config{PebblesCount: 15, MaxPebblesPerTurn: 2, Difficulty: game.Easy})
	require.NoError(t, err)

	_, err = s.Restart(game.Config{PebblesCount: 0, MaxPebblesPerTurn: 2})
	assert.ErrorIs(t, err, game.ErrInvalidConfig)

	current, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, first, current)
}

func TestSessionFullGame(t *testing.T) {
	s := New(randutil.Fixed(1), testLogger())

	state, err := s.Init(game.Config{PebblesCount: 10, MaxPebblesPerTurn: 3, Difficulty: game.Hard})
	require.NoError(t, err)
	require.Equal(t, game.User, state.FirstPlayer)

	// the user takes the winning line: leave a multiple of four every time
	outcome, err := s.Turn(2)
	require.NoError(t, err)
	assert.Equal(t, game.CounterTurn(1), outcome)

	outcome, err = s.Turn(3)
	require.NoError(t, err)
	assert.Equal(t, game.CounterTurn(1), outcome)

	outcome, err = s.Turn(3)
	require.NoError(t, err)
	assert.Equal(t, game.Won(game.User), outcome)

	_, err = s.Turn(1)
	assert.ErrorIs(t, err, game.ErrGameFinished)
	_, err = s.GiveUp()
	assert.ErrorIs(t, err, game.ErrGameFinished)

	final, err := s.State()
	require.NoError(t, err)
	require.NotNil(t, final.Winner)
	assert.Equal(t, game.User, *final.Winner)
	assert.Len(t, final.Moves, 5)
}

func TestSessionGiveUpThenRestart(t *testing.T) {
	s := New(randutil.Fixed(2), testLogger())

	_, err := s.Init(game.Config{PebblesCount: 15, MaxPebblesPerTurn: 2, Difficulty: game.Easy})
	require.NoError(t, err)

	outcome, err := s.GiveUp()
	require.NoError(t, err)
	assert.Equal(t, game.Won(game.Program), outcome)

	state, err := s.Restart(game.Config{PebblesCount: 20, MaxPebblesPerTurn: 3, Difficulty: game.Hard})
	require.NoError(t, err)
	assert.Equal(t, uint32(20), state.PebblesCount)
	assert.Equal(t, uint32(3), state.MaxPebblesPerTurn)
	assert.Equal(t, game.Hard, state.Difficulty)
	assert.Nil(t, state.Winner)
}

func TestSessionSnapshotIsolation(t *testing.T) {
	s := New(randutil.Fixed(1), testLogger())
	_, err := s.Init(game.Config{PebblesCount: 15, MaxPebblesPerTurn: 2, Difficulty: game.Easy})
	require.NoError(t, err)

	snap, err := s.State()
	require.NoError(t, err)
	snap.PebblesRemaining = 1
	snap.Moves = append(snap.Moves, game.Move{Player: game.User, Amount: 14})

	current, err := s.State()
	require.NoError(t, err)
	assert.Equal(t, uint32(15), current.PebblesRemaining)
	assert.Empty(t, current.Moves)
}
