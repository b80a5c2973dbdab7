package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/protocol"
	"github.com/lox/pebbles/internal/session"
)

// Connection represents a WebSocket connection to a client and the game it plays
type Connection struct {
	conn      *websocket.Conn
	send      chan *protocol.Message
	session   *session.Session
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	clock       quartz.Clock
	idleTimeout time.Duration
	idleMu      sync.Mutex
	idleTimer   *quartz.Timer
}

// NewConnection creates a new connection wrapper with a fresh session
func NewConnection(conn *websocket.Conn, logger *log.Logger, rng game.RandomSource, clock quartz.Clock, idleTimeout time.Duration) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	sess := session.New(rng, logger)

	return &Connection{
		conn:        conn,
		send:        make(chan *protocol.Message, 64),
		session:     sess,
		logger:      logger.WithPrefix("conn").With("session", sess.ID()),
		ctx:         ctx,
		cancel:      cancel,
		clock:       clock,
		idleTimeout: idleTimeout,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	c.resetIdleTimer()
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has been closed
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SessionID returns the ID of the session bound to this connection
func (c *Connection) SessionID() string {
	return c.session.ID()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.stopIdleTimer()
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *protocol.Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

func (c *Connection) resetIdleTimer() {
	if c.idleTimeout <= 0 {
		return
	}

	c.idleMu.Lock()
	defer c.idleMu.Unlock()

	if c.ctx.Err() != nil {
		return
	}
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.idleTimer = c.clock.AfterFunc(c.idleTimeout, func() {
		c.logger.Info("Closing idle connection", "idleTimeout", c.idleTimeout)
		_ = c.Close()
	}, "conn", "idle")
}

func (c *Connection) stopIdleTimer() {
	c.idleMu.Lock()
	defer c.idleMu.Unlock()

	if c.idleTimer != nil {
		c.idleTimer.Stop()
		c.idleTimer = nil
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.resetIdleTimer()

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("", protocol.CodeInvalidMessage, "Failed to parse message")
			continue
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

	switch msg.Type {
	case protocol.MessageTypeInit:
		var data protocol.ConfigData
		if err := msg.Decode(&data); err != nil {
			c.sendError(msg.RequestID, protocol.CodeInvalidMessage, "Failed to parse init data: "+err.Error())
			return
		}
		state, err := c.session.Init(data.Config())
		c.replyState(msg.RequestID, state, err)

	case protocol.MessageTypeRestart:
		var data protocol.ConfigData
		if err := msg.Decode(&data); err != nil {
			c.sendError(msg.RequestID, protocol.CodeInvalidMessage, "Failed to parse restart data: "+err.Error())
			return
		}
		state, err := c.session.Restart(data.Config())
		c.replyState(msg.RequestID, state, err)

	case protocol.MessageTypeTurn:
		var data protocol.TurnData
		if err := msg.Decode(&data); err != nil {
			c.sendError(msg.RequestID, protocol.CodeInvalidMessage, "Failed to parse turn data: "+err.Error())
			return
		}
		outcome, err := c.session.Turn(data.Amount)
		c.replyOutcome(msg.RequestID, outcome, err)

	case protocol.MessageTypeGiveUp:
		outcome, err := c.session.GiveUp()
		c.replyOutcome(msg.RequestID, outcome, err)

	case protocol.MessageTypeQueryState:
		state, err := c.session.State()
		c.replyState(msg.RequestID, state, err)

	default:
		c.sendError(msg.RequestID, protocol.CodeUnknownMessageType, "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) replyState(requestID string, state *game.State, err error) {
	if err != nil {
		c.sendErr(requestID, err)
		return
	}
	c.reply(requestID, protocol.MessageTypeState, protocol.StateData{
		SessionID: c.session.ID(),
		State:     state,
	})
}

func (c *Connection) replyOutcome(requestID string, outcome game.Outcome, err error) {
	if err != nil {
		c.sendErr(requestID, err)
		return
	}
	c.reply(requestID, protocol.MessageTypeOutcome, protocol.OutcomeData{Outcome: outcome})
}

func (c *Connection) reply(requestID string, messageType protocol.MessageType, data interface{}) {
	response, err := protocol.NewReply(requestID, messageType, data)
	if err != nil {
		c.logger.Error("Failed to create reply", "type", messageType, "error", err)
		c.sendError(requestID, protocol.CodeInternal, "Failed to encode reply")
		return
	}
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) sendErr(requestID string, err error) {
	data := protocol.NewErrorData(err)
	c.sendError(requestID, data.Code, data.Message)
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID string, code protocol.ErrorCode, message string) {
	errorMsg, err := protocol.NewReply(requestID, protocol.MessageTypeError, protocol.ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}
