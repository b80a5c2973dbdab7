package server

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/lox/pebbles/internal/protocol"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
}

func startTestServer(t *testing.T, srv *Server) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dialTestServer(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// request sends a message and waits for the reply carrying the same request ID
func request(t *testing.T, conn *websocket.Conn, messageType protocol.MessageType, data interface{}) *protocol.Message {
	t.Helper()

	msg, err := protocol.NewMessage(messageType, data)
	require.NoError(t, err)
	msg.RequestID = uuid.NewString()
	require.NoError(t, conn.WriteJSON(msg))

	return readReply(t, conn, msg.RequestID)
}

func readReply(t *testing.T, conn *websocket.Conn, requestID string) *protocol.Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply protocol.Message
	require.NoError(t, conn.ReadJSON(&reply))
	require.Equal(t, requestID, reply.RequestID)
	return &reply
}

func requireErrorCode(t *testing.T, reply *protocol.Message, code protocol.ErrorCode) {
	t.Helper()

	require.Equal(t, protocol.MessageTypeError, reply.Type)
	var data protocol.ErrorData
	require.NoError(t, reply.Decode(&data))
	require.Equal(t, code, data.Code, data.Message)
}
