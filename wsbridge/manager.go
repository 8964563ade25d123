package wsbridge

import (
	"net/http"
	"sync"
)

// Manager tracks live bridge sessions so Close can force them down during
// server shutdown, mirroring ooo.go's Stream.CloseAll() generalized from
// per-server pub/sub connections to per-session bridge connections (spec
// §5 "per-session bookkeeping instead of per-server").
type Manager struct {
	mu       sync.Mutex
	sessions map[*Session]struct{}
}

// NewManager constructs an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: map[*Session]struct{}{}}
}

// Serve upgrades r to a WebSocket, registers the session for the duration
// of the connection, and runs it until the browser disconnects.
func (m *Manager) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	session := &Session{
		inbound:  conn,
		toClient: make(chan ServerMessage, 100),
		done:     make(chan struct{}),
	}
	m.register(session)
	defer m.unregister(session)
	defer session.teardown()

	go session.writeLoop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg ClientMessage
		if err := unmarshalClientMessage(data, &msg); err != nil {
			session.emit(ServerMessage{Type: "error", Message: "Invalid message format: " + err.Error()})
			continue
		}
		session.handle(msg)
	}
	return nil
}

func (m *Manager) register(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s] = struct{}{}
}

func (m *Manager) unregister(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s)
}

// CloseAll force-closes every tracked session's inbound and remote
// connections.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.teardown()
	}
}
