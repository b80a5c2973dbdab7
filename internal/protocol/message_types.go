package protocol

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeInit       MessageType = "init"
	MessageTypeTurn       MessageType = "turn"
	MessageTypeGiveUp     MessageType = "give_up"
	MessageTypeRestart    MessageType = "restart"
	MessageTypeQueryState MessageType = "query_state"

	// Server to client messages
	MessageTypeState   MessageType = "state"
	MessageTypeOutcome MessageType = "outcome"
	MessageTypeError   MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
