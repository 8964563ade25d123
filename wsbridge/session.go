// Package wsbridge implements the browser-to-remote WebSocket bridge (spec
// §4.6): one Session per inbound browser socket, forwarding connect/send/
// disconnect commands to a dialed remote WebSocket and relaying frames
// back. Grounded on original_source/src/websocket.rs's handle_socket /
// handle_client_message state machine, translated from mpsc channels +
// tokio::spawn to channels + goroutines with an explicit context.Context/
// cancel pair per remote connection (spec Design Notes §9: cancellation
// is explicit here, not implied by channel drop as in the Rust original).
package wsbridge

import (
	"context"
	"encoding/base64"
	"net"
	"net/http"
	"strconv"
	"sync"

	goccyjson "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/benitogf/jslink/dialer"
)

// ClientMessage is an inbound command from the browser, tagged by Type:
// "connect", "disconnect", "send".
type ClientMessage struct {
	Type         string            `json:"type"`
	URL          string            `json:"url,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	AuthType     string            `json:"auth_type,omitempty"`
	AuthToken    string            `json:"auth_token,omitempty"`
	AuthUsername string            `json:"auth_username,omitempty"`
	AuthPassword string            `json:"auth_password,omitempty"`
	Message      string            `json:"message,omitempty"`
}

// ServerMessage is an outbound event to the browser, tagged by Type:
// "connected", "disconnected", "message", "error", "info".
type ServerMessage struct {
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Data      string `json:"data,omitempty"`
	Direction string `json:"direction,omitempty"`
	Message   string `json:"message,omitempty"`
}

// state is the mutex-guarded per-session connection to the remote.
type state struct {
	mu           sync.Mutex
	remoteConn   *websocket.Conn
	connectedURL string
	cancel       context.CancelFunc
}

// Session owns one inbound browser socket and the state of its (at most
// one at a time) outbound remote connection.
type Session struct {
	inbound  *websocket.Conn
	toClient chan ServerMessage
	state    state
	done     chan struct{}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func unmarshalClientMessage(data []byte, msg *ClientMessage) error {
	return goccyjson.Unmarshal(data, msg)
}

func (s *Session) emit(msg ServerMessage) {
	select {
	case s.toClient <- msg:
	case <-s.done:
	}
}

// writeLoop forwards queued ServerMessages to the browser socket, matching
// send_to_client_task.
func (s *Session) writeLoop() {
	for {
		select {
		case msg := <-s.toClient:
			encoded, err := goccyjson.Marshal(msg)
			if err != nil {
				continue
			}
			if err := s.inbound.WriteMessage(websocket.TextMessage, encoded); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case "connect":
		s.handleConnect(msg)
	case "disconnect":
		s.handleDisconnect()
	case "send":
		s.handleSend(msg.Message)
	}
}

func (s *Session) handleConnect(msg ClientMessage) {
	s.closeRemote("reconnecting")

	ctx, cancel := context.WithCancel(context.Background())

	// NetDialContext is routed through the Proxy Dialer so the outbound
	// leg of the bridge tunnels through the HTTP CONNECT/SOCKS proxy that
	// netproxy.Detect picks from the environment (spec §4.5/§4.6). The
	// Request Executor does not use this dialer; its client takes its proxy
	// from the persisted network settings (netproxy.BuildClient).
	ws := &websocket.Dialer{
		NetDialContext: func(dialCtx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(dialCtx, msg.URL)
		},
	}

	header := buildHeaders(msg)
	remote, _, err := ws.Dial(msg.URL, header)
	if err != nil {
		cancel()
		s.emit(ServerMessage{Type: "error", Message: "Connection failed: " + err.Error()})
		return
	}

	s.state.mu.Lock()
	s.state.remoteConn = remote
	s.state.connectedURL = msg.URL
	s.state.cancel = cancel
	s.state.mu.Unlock()

	s.emit(ServerMessage{Type: "connected", URL: msg.URL})

	go s.readRemoteLoop(remote, ctx)
}

func (s *Session) handleDisconnect() {
	s.closeRemote("User disconnected")
	s.emit(ServerMessage{Type: "disconnected", Reason: "User disconnected"})
}

func (s *Session) handleSend(message string) {
	s.state.mu.Lock()
	remote := s.state.remoteConn
	s.state.mu.Unlock()

	if remote == nil {
		s.emit(ServerMessage{Type: "error", Message: "Not connected to a WebSocket server"})
		return
	}
	if err := remote.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		s.emit(ServerMessage{Type: "error", Message: "Failed to send message"})
		return
	}
	s.emit(ServerMessage{Type: "message", Data: message, Direction: "sent"})
}

// readRemoteLoop relays frames from the remote connection back to the
// browser, matching the Rust read task's message-type translation table:
// a clean close frame is a "disconnected" event, anything else (a dropped
// TCP connection, a protocol violation) is an "error" event. A read error
// after the connection's context was cancelled (user disconnect, reconnect,
// session teardown) ends the loop without emitting anything.
func (s *Session) readRemoteLoop(remote *websocket.Conn, ctx context.Context) {
	for {
		msgType, data, err := remote.ReadMessage()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.emit(ServerMessage{Type: "disconnected", Reason: "Remote closed connection"})
			} else {
				s.emit(ServerMessage{Type: "error", Message: "Connection error: " + err.Error()})
			}
			s.clearRemote(remote)
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		switch msgType {
		case websocket.TextMessage:
			s.emit(ServerMessage{Type: "message", Data: string(data), Direction: "received"})
		case websocket.BinaryMessage:
			s.emit(ServerMessage{Type: "message", Data: binaryPlaceholder(len(data)), Direction: "received"})
		}
	}
}

func (s *Session) clearRemote(expect *websocket.Conn) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if s.state.remoteConn == expect {
		s.state.remoteConn = nil
		s.state.connectedURL = ""
		if s.state.cancel != nil {
			s.state.cancel()
			s.state.cancel = nil
		}
	}
}

func (s *Session) closeRemote(_ string) {
	s.state.mu.Lock()
	conn := s.state.remoteConn
	cancel := s.state.cancel
	s.state.remoteConn = nil
	s.state.connectedURL = ""
	s.state.cancel = nil
	s.state.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
}

func (s *Session) teardown() {
	s.closeRemote("session closed")
	close(s.done)
	s.inbound.Close()
}

func buildHeaders(msg ClientMessage) http.Header {
	header := http.Header{}
	for k, v := range msg.Headers {
		header.Set(k, v)
	}
	switch msg.AuthType {
	case "bearer":
		if msg.AuthToken != "" {
			header.Set("Authorization", "Bearer "+msg.AuthToken)
		}
	case "basic":
		if msg.AuthUsername != "" || msg.AuthPassword != "" {
			header.Set("Authorization", basicAuthHeader(msg.AuthUsername, msg.AuthPassword))
		}
	}
	return header
}

func binaryPlaceholder(n int) string {
	return "[Binary: " + strconv.Itoa(n) + " bytes]"
}

func basicAuthHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}
