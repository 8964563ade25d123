package wsbridge_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	goccyjson "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/benitogf/jslink/wsbridge"
)

// newEchoServer runs a raw WebSocket server that echoes every text frame
// it receives, standing in for a remote endpoint the bridge connects to.
func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(msgType, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialBridge(t *testing.T, manager *wsbridge.Manager) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, manager.Serve(w, r))
	}))
	t.Cleanup(srv.Close)

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(srv.URL, "http://")}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readServerMessage(t *testing.T, conn *websocket.Conn) wsbridge.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg wsbridge.ServerMessage
	require.NoError(t, goccyjson.Unmarshal(data, &msg))
	return msg
}

func TestBridgeConnectSendEcho(t *testing.T) {
	remote := newEchoServer(t)
	remoteURL := "ws" + strings.TrimPrefix(remote.URL, "http") + "/"

	manager := wsbridge.NewManager()
	t.Cleanup(manager.CloseAll)
	conn := dialBridge(t, manager)

	connectMsg, err := goccyjson.Marshal(wsbridge.ClientMessage{Type: "connect", URL: remoteURL})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, connectMsg))

	connected := readServerMessage(t, conn)
	require.Equal(t, "connected", connected.Type)

	sendMsg, err := goccyjson.Marshal(wsbridge.ClientMessage{Type: "send", Message: "hello"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, sendMsg))

	sent := readServerMessage(t, conn)
	require.Equal(t, "message", sent.Type)
	require.Equal(t, "sent", sent.Direction)

	echoed := readServerMessage(t, conn)
	require.Equal(t, "message", echoed.Type)
	require.Equal(t, "received", echoed.Direction)
	require.Equal(t, "hello", echoed.Data)
}

func TestBridgeSendWithoutConnectReturnsError(t *testing.T) {
	manager := wsbridge.NewManager()
	t.Cleanup(manager.CloseAll)
	conn := dialBridge(t, manager)

	sendMsg, err := goccyjson.Marshal(wsbridge.ClientMessage{Type: "send", Message: "hello"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, sendMsg))

	reply := readServerMessage(t, conn)
	require.Equal(t, "error", reply.Type)
	require.Equal(t, "Not connected to a WebSocket server", reply.Message)
}

// newCloseFrameServer upgrades the connection and immediately sends a
// clean WebSocket close frame, standing in for a remote that ends the
// session gracefully.
func newCloseFrameServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		conn.Close()
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newAbruptCloseServer upgrades the connection and then drops the raw TCP
// connection with no close handshake, standing in for a network failure.
func newAbruptCloseServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.NetConn().Close()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBridgeRemoteCleanCloseEmitsDisconnected(t *testing.T) {
	remote := newCloseFrameServer(t)
	remoteURL := "ws" + strings.TrimPrefix(remote.URL, "http") + "/"

	manager := wsbridge.NewManager()
	t.Cleanup(manager.CloseAll)
	conn := dialBridge(t, manager)

	connectMsg, _ := goccyjson.Marshal(wsbridge.ClientMessage{Type: "connect", URL: remoteURL})
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, connectMsg))
	readServerMessage(t, conn) // connected

	reply := readServerMessage(t, conn)
	require.Equal(t, "disconnected", reply.Type)
	require.Equal(t, "Remote closed connection", reply.Reason)
}

func TestBridgeRemoteDroppedConnectionEmitsError(t *testing.T) {
	remote := newAbruptCloseServer(t)
	remoteURL := "ws" + strings.TrimPrefix(remote.URL, "http") + "/"

	manager := wsbridge.NewManager()
	t.Cleanup(manager.CloseAll)
	conn := dialBridge(t, manager)

	connectMsg, _ := goccyjson.Marshal(wsbridge.ClientMessage{Type: "connect", URL: remoteURL})
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, connectMsg))
	readServerMessage(t, conn) // connected

	reply := readServerMessage(t, conn)
	require.Equal(t, "error", reply.Type)
	require.Contains(t, reply.Message, "Connection error:")
}

func TestBridgeDisconnect(t *testing.T) {
	remote := newEchoServer(t)
	remoteURL := "ws" + strings.TrimPrefix(remote.URL, "http") + "/"

	manager := wsbridge.NewManager()
	t.Cleanup(manager.CloseAll)
	conn := dialBridge(t, manager)

	connectMsg, _ := goccyjson.Marshal(wsbridge.ClientMessage{Type: "connect", URL: remoteURL})
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, connectMsg))
	readServerMessage(t, conn)

	disconnectMsg, _ := goccyjson.Marshal(wsbridge.ClientMessage{Type: "disconnect"})
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, disconnectMsg))

	reply := readServerMessage(t, conn)
	require.Equal(t, "disconnected", reply.Type)
	require.Equal(t, "User disconnected", reply.Reason)
}
