package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/mtempl/internal/logging"
)

const writeTimeout = 5 * time.Second

// reloadMessage is pushed to websocket clients when the catalog changes.
type reloadMessage struct {
	Type      string `json:"type"`
	Templates int    `json:"templates"`
}

// hub tracks connected websocket clients and fans broadcast messages out
// to them. Slow clients are disconnected rather than blocking the hub.
type hub struct {
	logger logging.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func newHub(logger logging.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// run blocks until ctx is cancelled, then closes every client.
func (h *hub) run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close(websocket.StatusNormalClosure, "server shutting down")
	}
	h.clients = make(map[*websocket.Conn]chan []byte)
}

func (h *hub) add(conn *websocket.Conn) chan []byte {
	send := make(chan []byte, 16)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()
	return send
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// broadcast queues a message for every connected client.
func (h *hub) broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(context.Background(), err, "marshaling broadcast message")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- data:
		default:
			conn.Close(websocket.StatusPolicyViolation, "client too slow")
			delete(h.clients, conn)
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.Server.AllowedOrigins,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}

	send := s.hub.add(conn)
	defer s.hub.remove(conn)

	ctx := r.Context()
	go func() {
		// Drain reads so close frames and pings are processed; the
		// playground protocol is push-only.
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case data := <-send:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
		}
	}
}

// checkOrigin validates the request origin against the configured allow
// list. Same-host origins are always allowed; an empty Origin header means
// a non-browser client and is accepted.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if originURL.Host == r.Host {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if originURL.Host == allowed || origin == allowed {
			return true
		}
	}
	return false
}
