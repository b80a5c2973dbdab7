package protocol

import (
	"errors"
	"fmt"

	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/session"
)

// ErrorCode is the stable identifier sent in error replies
type ErrorCode string

const (
	CodeInvalidConfig      ErrorCode = "invalid_config"
	CodeInvalidMove        ErrorCode = "invalid_move"
	CodeGameFinished       ErrorCode = "game_finished"
	CodeNotInitialized     ErrorCode = "not_initialized"
	CodeInvalidMessage     ErrorCode = "invalid_message"
	CodeUnknownMessageType ErrorCode = "unknown_message_type"
	CodeInternal           ErrorCode = "internal"
)

var codeErrors = map[ErrorCode]error{
	CodeInvalidConfig:  game.ErrInvalidConfig,
	CodeInvalidMove:    game.ErrInvalidMove,
	CodeGameFinished:   game.ErrGameFinished,
	CodeNotInitialized: session.ErrNotInitialized,
}

// CodeFor maps an engine or session error to its wire code
func CodeFor(err error) ErrorCode {
	for code, target := range codeErrors {
		if errors.Is(err, target) {
			return code
		}
	}
	return CodeInternal
}

// Error is an error reply received from the server
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match the sentinel behind a known code
func (e *Error) Unwrap() error {
	return codeErrors[e.Code]
}

// NewErrorData builds the payload for an error reply
func NewErrorData(err error) ErrorData {
	return ErrorData{Code: CodeFor(err), Message: err.Error()}
}

// Err converts a received payload back into an error
func (d ErrorData) Err() error {
	return &Error{Code: d.Code, Message: d.Message}
}
