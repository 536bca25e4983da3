// Monitor stream: pushes execution records to WebSocket clients live.
//
// DESIGN: A small HTTP server with a single /ws endpoint. Each client gets a
// buffered channel; a client that cannot keep up is dropped rather than
// back-pressuring the interception pipeline.
package monitoring

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/seamlab/scriptseam/internal/intercept"
)

// Monitor serves the live execution stream.
type Monitor struct {
	log zerolog.Logger
	srv *http.Server
	ln  net.Listener

	mu      sync.Mutex
	clients map[string]chan []byte
	closed  bool
}

// NewMonitor binds the listen address. Start must be called to serve.
func NewMonitor(addr string, log zerolog.Logger) (*Monitor, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	m := &Monitor{
		log:     log,
		ln:      ln,
		clients: make(map[string]chan []byte),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.handleWS)
	m.srv = &http.Server{Handler: mux}
	return m, nil
}

// Start serves in the background.
func (m *Monitor) Start() {
	m.log.Info().Str("addr", m.Addr()).Msg("monitor stream listening")
	go func() {
		if err := m.srv.Serve(m.ln); err != nil && err != http.ErrServerClosed {
			m.log.Error().Err(err).Msg("monitor stream server failed")
		}
	}()
}

// Addr returns the bound listen address.
func (m *Monitor) Addr() string {
	return m.ln.Addr().String()
}

// Broadcast pushes one execution record to every connected client.
// Intended as a collector subscriber.
func (m *Monitor) Broadcast(r intercept.ExecutionResult) {
	data, err := json.Marshal(r)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to serialize monitor event")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.clients {
		select {
		case ch <- data:
		default:
			m.log.Warn().Str("client", id).Msg("monitor client too slow, dropping")
			close(ch)
			delete(m.clients, id)
		}
	}
}

// Close stops the server and disconnects all clients.
func (m *Monitor) Close() error {
	m.mu.Lock()
	m.closed = true
	for id, ch := range m.clients {
		close(ch)
		delete(m.clients, id)
	}
	m.mu.Unlock()
	return m.srv.Close()
}

func (m *Monitor) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		m.log.Warn().Err(err).Msg("monitor client handshake failed")
		return
	}

	id := uuid.NewString()
	ch := make(chan []byte, 64)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		c.Close(websocket.StatusGoingAway, "shutting down")
		return
	}
	m.clients[id] = ch
	m.mu.Unlock()

	m.log.Debug().Str("client", id).Msg("monitor client connected")
	defer func() {
		m.mu.Lock()
		if existing, ok := m.clients[id]; ok && existing == ch {
			close(ch)
			delete(m.clients, id)
		}
		m.mu.Unlock()
		c.Close(websocket.StatusNormalClosure, "")
		m.log.Debug().Str("client", id).Msg("monitor client disconnected")
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-ch:
			if !ok {
				return
			}
			if err := c.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}
