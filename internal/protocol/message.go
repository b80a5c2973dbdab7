// Package protocol defines the JSON messages exchanged between the pebbles
// server and its clients.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/lox/pebbles/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	msg := &Message{
		Type:      messageType,
		Timestamp: time.Now(),
	}
	if data != nil {
		dataBytes, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = dataBytes
	}
	return msg, nil
}

// NewReply creates a message answering the request with the given ID
func NewReply(requestID string, messageType MessageType, data interface{}) (*Message, error) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		return nil, err
	}
	msg.RequestID = requestID
	return msg, nil
}

// Decode unmarshals the message payload into v
func (m *Message) Decode(v interface{}) error {
	if len(m.Data) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(m.Data, v)
}

// Client → Server Messages

// ConfigData carries the parameters of init and restart
type ConfigData struct {
	PebblesCount      uint32          `json:"pebblesCount"`
	MaxPebblesPerTurn uint32          `json:"maxPebblesPerTurn"`
	Difficulty        game.Difficulty `json:"difficulty"`
}

// Config converts the payload to a game.Config
func (d ConfigData) Config() game.Config {
	return game.Config{
		PebblesCount:      d.PebblesCount,
		MaxPebblesPerTurn: d.MaxPebblesPerTurn,
		Difficulty:        d.Difficulty,
	}
}

// ConfigDataFromGame converts a game.Config to its wire form
func ConfigDataFromGame(cfg game.Config) ConfigData {
	return ConfigData{
		PebblesCount:      cfg.PebblesCount,
		MaxPebblesPerTurn: cfg.MaxPebblesPerTurn,
		Difficulty:        cfg.Difficulty,
	}
}

type TurnData struct {
	Amount uint32 `json:"amount"`
}

// Server → Client Messages

type StateData struct {
	SessionID string      `json:"sessionId"`
	State     *game.State `json:"state"`
}

type OutcomeData struct {
	Outcome game.Outcome `json:"outcome"`
}

type ErrorData struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
