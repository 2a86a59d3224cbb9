package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsMessage is the envelope pushed to connected clients.
type wsMessage struct {
	Kind  string          `json:"kind"`
	Event *LessonEvent    `json:"event,omitempty"`
	Stats *CollectorStats `json:"stats,omitempty"`
}

// Server streams catalog run events to WebSocket clients and
// serves an aggregate stats snapshot over plain HTTP.
type Server struct {
	mu        sync.Mutex
	collector *EventCollector
	clients   map[*websocket.Conn]chan []byte
	addr      string
	server    *http.Server
	upgrader  websocket.Upgrader
}

// NewServer creates a monitor server bound to addr, fed by the
// given collector.
func NewServer(
	addr string,
	collector *EventCollector,
) *Server {
	return &Server{
		collector: collector,
		clients:   make(map[*websocket.Conn]chan []byte),
		addr:      addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is a local tool; accept any
			// origin.
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// Start begins serving. It blocks until ctx is cancelled or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/health", func(
		w http.ResponseWriter, _ *http.Request,
	) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	// Broadcast every collector event to connected clients.
	s.collector.OnEvent(func(event LessonEvent) {
		msg := wsMessage{Kind: "event", Event: &event}
		data, err := json.Marshal(msg)
		if err != nil {
			return
		}
		s.broadcast(data)
	})

	go func() {
		<-ctx.Done()
		_ = s.server.Close()
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleWS upgrades the connection and streams events until
// the client goes away.
func (s *Server) handleWS(
	w http.ResponseWriter,
	r *http.Request,
) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	ch := make(chan []byte, 32)
	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	// Send the current stats snapshot first so late joiners
	// see where the run stands.
	stats := s.collector.Stats()
	if data, err := json.Marshal(wsMessage{
		Kind: "stats", Stats: &stats,
	}); err == nil {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}

	// Reader goroutine: we never expect client messages, but
	// reading is required to notice closed connections.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case data := <-ch:
			_ = conn.SetWriteDeadline(
				time.Now().Add(10 * time.Second),
			)
			if err := conn.WriteMessage(
				websocket.TextMessage, data,
			); err != nil {
				return
			}
		}
	}
}

// handleStats serves the aggregate stats snapshot as JSON.
func (s *Server) handleStats(
	w http.ResponseWriter,
	_ *http.Request,
) {
	w.Header().Set("Content-Type", "application/json")
	stats := s.collector.Stats()
	_ = json.NewEncoder(w).Encode(stats)
}

// broadcast queues data for every connected client, dropping
// it for clients that cannot keep up.
func (s *Server) broadcast(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.clients {
		select {
		case ch <- data:
		default:
			// Client too slow, skip.
		}
	}
}
