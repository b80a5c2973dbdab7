// Package client talks to a pebbles server over WebSocket.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/protocol"
)

// ErrDisconnected is returned for requests on a closed connection
var ErrDisconnected = errors.New("client: disconnected")

// Client represents a WebSocket client for one pebbles session
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *protocol.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	connected bool
	sessionID string
	closeOnce sync.Once

	pingPeriod time.Duration
	pending    map[string]chan *protocol.Message
}

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *protocol.Message, 16),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,

		pingPeriod: 54 * time.Second,
		pending:    make(map[string]chan *protocol.Message),
	}
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect(ctx context.Context) error {
	c.logger.Info("Connecting to server", "url", c.serverURL)

	wsURL, err := websocketURL(c.serverURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump(conn)
	go c.writePump(conn)

	c.logger.Info("Connected to server")
	return nil
}

// websocketURL converts http/https to ws/wss and defaults the path to /ws
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL scheme: %q", u.Scheme)
	}

	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second)) // Ignore close handshake errors
			_ = c.conn.Close()
			c.connected = false
		}

		c.logger.Info("Disconnected from server")
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SessionID returns the server-side session ID, known after the first state reply
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Request sends a message and waits for the reply with the same request ID.
// Error replies are returned as *protocol.Error.
func (c *Client) Request(ctx context.Context, messageType protocol.MessageType, data interface{}) (*protocol.Message, error) {
	msg, err := protocol.NewMessage(messageType, data)
	if err != nil {
		return nil, err
	}
	msg.RequestID = uuid.NewString()

	replyCh := make(chan *protocol.Message, 1)
	c.mu.Lock()
	c.pending[msg.RequestID] = replyCh
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
	}()

	select {
	case c.send <- msg:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, ErrDisconnected
	}

	select {
	case reply := <-replyCh:
		if reply.Type == protocol.MessageTypeError {
			var data protocol.ErrorData
			if err := reply.Decode(&data); err != nil {
				return nil, fmt.Errorf("failed to decode error reply: %w", err)
			}
			return nil, data.Err()
		}
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, ErrDisconnected
	}
}

// Init starts a game on the server
func (c *Client) Init(ctx context.Context, cfg game.Config) (*game.State, error) {
	return c.requestState(ctx, protocol.MessageTypeInit, protocol.ConfigDataFromGame(cfg))
}

// Restart replaces the current game with a new one
func (c *Client) Restart(ctx context.Context, cfg game.Config) (*game.State, error) {
	return c.requestState(ctx, protocol.MessageTypeRestart, protocol.ConfigDataFromGame(cfg))
}

// State fetches the current game state
func (c *Client) State(ctx context.Context) (*game.State, error) {
	return c.requestState(ctx, protocol.MessageTypeQueryState, nil)
}

// Turn takes amount pebbles and returns the outcome after the program's reply
func (c *Client) Turn(ctx context.Context, amount uint32) (game.Outcome, error) {
	return c.requestOutcome(ctx, protocol.MessageTypeTurn, protocol.TurnData{Amount: amount})
}

// GiveUp concedes the current game
func (c *Client) GiveUp(ctx context.Context) (game.Outcome, error) {
	return c.requestOutcome(ctx, protocol.MessageTypeGiveUp, nil)
}

func (c *Client) requestState(ctx context.Context, messageType protocol.MessageType, data interface{}) (*game.State, error) {
	reply, err := c.Request(ctx, messageType, data)
	if err != nil {
		return nil, err
	}
	if reply.Type != protocol.MessageTypeState {
		return nil, fmt.Errorf("unexpected reply type %q", reply.Type)
	}

	var stateData protocol.StateData
	if err := reply.Decode(&stateData); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	if stateData.State == nil {
		return nil, fmt.Errorf("state reply without state")
	}

	c.mu.Lock()
	c.sessionID = stateData.SessionID
	c.mu.Unlock()
	return stateData.State, nil
}

func (c *Client) requestOutcome(ctx context.Context, messageType protocol.MessageType, data interface{}) (game.Outcome, error) {
	reply, err := c.Request(ctx, messageType, data)
	if err != nil {
		return game.Outcome{}, err
	}
	if reply.Type != protocol.MessageTypeOutcome {
		return game.Outcome{}, fmt.Errorf("unexpected reply type %q", reply.Type)
	}

	var outcomeData protocol.OutcomeData
	if err := reply.Decode(&outcomeData); err != nil {
		return game.Outcome{}, fmt.Errorf("failed to decode outcome: %w", err)
	}
	return outcomeData.Outcome, nil
}

// readPump handles incoming messages from the server
func (c *Client) readPump(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		c.cancel()
	}()

	for {
		var msg protocol.Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type, "requestId", msg.RequestID)

		c.mu.RLock()
		replyCh, ok := c.pending[msg.RequestID]
		c.mu.RUnlock()
		if !ok {
			c.logger.Warn("Dropping unsolicited message", "type", msg.Type, "requestId", msg.RequestID)
			continue
		}
		replyCh <- &msg
	}
}

// writePump handles outgoing messages to the server. It is the only writer
// of data and ping frames on conn.
func (c *Client) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				c.cancel()
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
