package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/session"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err    error
		code   ErrorCode
		target error
	}{
		{fmt.Errorf("%w: zero pile", game.ErrInvalidConfig), CodeInvalidConfig, game.ErrInvalidConfig},
		{fmt.Errorf("%w: too many", game.ErrInvalidMove), CodeInvalidMove, game.ErrInvalidMove},
		{game.ErrGameFinished, CodeGameFinished, game.ErrGameFinished},
		{session.ErrNotInitialized, CodeNotInitialized, session.ErrNotInitialized},
		{errors.New("boom"), CodeInternal, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			data := NewErrorData(tt.err)
			assert.Equal(t, tt.code, data.Code)
			assert.Equal(t, tt.err.Error(), data.Message)

			received := data.Err()
			if tt.target == nil {
				assert.Nil(t, errors.Unwrap(received))
				return
			}
			assert.ErrorIs(t, received, tt.target)
		})
	}
}

func TestErrorIsAfterRoundTrip(t *testing.T) {
	data := NewErrorData(fmt.Errorf("%w: must take between 1 and 2 pebbles, got 3", game.ErrInvalidMove))
	assert.ErrorIs(t, data.Err(), game.ErrInvalidMove)
	assert.NotErrorIs(t, data.Err(), game.ErrGameFinished)
}

func TestMessageEnvelope(t *testing.T) {
	msg, err := NewReply("req-1", MessageTypeOutcome, OutcomeData{Outcome: game.CounterTurn(2)})
	require.NoError(t, err)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, MessageTypeOutcome, decoded.Type)
	assert.Equal(t, "req-1", decoded.RequestID)

	var data OutcomeData
	require.NoError(t, decoded.Decode(&data))
	assert.Equal(t, game.CounterTurn(2), data.Outcome)
}

func TestDecodeEmptyPayload(t *testing.T) {
	msg, err := NewMessage(MessageTypeQueryState, nil)
	require.NoError(t, err)
	assert.Empty(t, msg.Data)

	var data TurnData
	require.NoError(t, msg.Decode(&data))
	assert.Zero(t, data.Amount)
}

func TestConfigDataDifficulty(t *testing.T) {
	var data ConfigData
	require.NoError(t, json.Unmarshal([]byte(`{"pebblesCount":15,"maxPebblesPerTurn":2,"difficulty":"hard"}`), &data))
	assert.Equal(t, game.Config{PebblesCount: 15, MaxPebblesPerTurn: 2, Difficulty: game.Hard}, data.Config())

	assert.Error(t, json.Unmarshal([]byte(`{"difficulty":"impossible"}`), &data))
}
