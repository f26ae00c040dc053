// Package web serves a read-only spectator feed of running games over
// WebSockets.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer = 64
)

// Message events.
const (
	EventSnapshot = "snapshot"
	EventEnded    = "ended"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Spectating is read-only, so any origin may watch.
		return true
	},
}

// Message is what spectators receive.
type Message struct {
	SessionID string          `json:"session_id"`
	Event     string          `json:"event"`
	Snapshot  *t2048.Snapshot `json:"snapshot,omitempty"`
}

// SessionInfo describes a running game in the /sessions listing.
type SessionInfo struct {
	ID         string    `json:"id"`
	Player     string    `json:"player"`
	Started    time.Time `json:"started"`
	Score      int       `json:"score"`
	Spectators int       `json:"spectators"`
}

type session struct {
	info    SessionInfo
	last    []byte // Most recent snapshot message, sent to new spectators
	clients map[*client]bool
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub tracks running games and the spectators watching each of them.
// All methods are safe for concurrent use.
type Hub struct {
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// NewSession registers a game and returns its id.
func (h *Hub) NewSession(player string) string {
	id := uuid.NewString()

	h.mu.Lock()
	h.sessions[id] = &session{
		info:    SessionInfo{ID: id, Player: player, Started: time.Now().UTC()},
		clients: make(map[*client]bool),
	}
	h.mu.Unlock()

	h.logger.Debug("session opened", "session", id, "player", player)
	return id
}

// Publish sends snap to everyone watching the session. Slow spectators are
// dropped rather than stalling the game.
func (h *Hub) Publish(sessionID string, snap t2048.Snapshot) {
	data, err := json.Marshal(Message{SessionID: sessionID, Event: EventSnapshot, Snapshot: &snap})
	if err != nil {
		h.logger.Error("cannot encode snapshot", "session", sessionID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	s.last = data
	s.info.Score = snap.Score
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow spectator", "session", sessionID)
			h.removeLocked(c)
		}
	}
}

// EndSession tells the session's spectators the game is over and forgets it.
func (h *Hub) EndSession(sessionID string) {
	data, err := json.Marshal(Message{SessionID: sessionID, Event: EventEnded})
	if err != nil {
		h.logger.Error("cannot encode end of session", "session", sessionID, "error", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	for c := range s.clients {
		if data != nil {
			select {
			case c.send <- data:
			default:
			}
		}
		close(c.send)
	}
	delete(h.sessions, sessionID)
	h.logger.Debug("session closed", "session", sessionID)
}

// Sessions lists the running games, oldest first.
func (h *Hub) Sessions() []SessionInfo {
	h.mu.Lock()
	list := make([]SessionInfo, 0, len(h.sessions))
	for _, s := range h.sessions {
		info := s.info
		info.Spectators = len(s.clients)
		list = append(list, info)
	}
	h.mu.Unlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Started.Equal(list[j].Started) {
			return list[i].ID < list[j].ID
		}
		return list[i].Started.Before(list[j].Started)
	})
	return list
}

// Handler returns the HTTP routes of the spectator feed.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/sessions", h.serveSessions)
	return mux
}

// Serve runs the spectator feed on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("spectator feed listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Hub) serveSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Sessions()); err != nil {
		h.logger.Warn("cannot write sessions", "error", err)
	}
}

// ServeWS upgrades a request for /ws?session=<id> and streams snapshots of
// that session until it ends or the spectator disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")

	h.mu.Lock()
	_, ok := h.sessions[sessionID]
	h.mu.Unlock()
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: sessionID,
	}
	if !h.register(c) {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// register adds c to its session and queues the latest snapshot. It fails if
// the session ended since the request was checked.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[c.sessionID]
	if !ok {
		return false
	}
	s.clients[c] = true
	if s.last != nil {
		c.send <- s.last
	}
	h.logger.Debug("spectator joined", "session", c.sessionID, "spectators", len(s.clients))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	s, ok := h.sessions[c.sessionID]
	if !ok || !s.clients[c] {
		return
	}
	delete(s.clients, c)
	close(c.send)
	h.logger.Debug("spectator left", "session", c.sessionID, "spectators", len(s.clients))
}

// readPump discards anything the spectator sends and notices disconnects.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "session", c.sessionID, "error", err)
			}
			return
		}
	}
}

// writePump sends queued messages, one per frame, and keeps the connection
// alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
