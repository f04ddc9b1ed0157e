package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dating-api/internal/application/chat"
	"github.com/dating-api/internal/domain"
	"github.com/dating-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	eventMessage = "message"
	eventTyping  = "typing"
	eventError   = "error"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 16
)

// event is the wire format for both directions of the chat socket.
type event struct {
	Type    string          `json:"type"`
	Content string          `json:"content,omitempty"`
	Message *domain.Message `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type client struct {
	conn   *websocket.Conn
	userID string
	send   chan event
}

// Handler upgrades HTTP requests to chat WebSocket connections.
type Handler struct {
	hub      *Hub
	chat     chat.Service
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, chatSvc chat.Service) *Handler {
	return &Handler{
		hub:  hub,
		chat: chatSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser origin enforcement happens at the CORS layer; the
			// socket itself is protected by the JWT check below.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Serve joins the authenticated user to the match's chat room. Membership
// is verified by the chat service on the first History call before any
// frames are exchanged.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	matchID := chi.URLParam(r, "id")
	if _, err := h.chat.History(r.Context(), matchID, claims.UserID, 1); err != nil {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "match_id", matchID, "err", err)
		return
	}

	c := &client{conn: conn, userID: claims.UserID, send: make(chan event, sendBuffer)}
	h.hub.join(matchID, c)

	go h.writeLoop(c)
	h.readLoop(matchID, c)

	h.hub.leave(matchID, c)
	close(c.send)
}

func (h *Handler) readLoop(matchID string, c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev event
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "match_id", matchID, "user_id", c.userID, "err", err)
			}
			return
		}
		switch ev.Type {
		case eventMessage:
			if _, err := h.chat.Send(context.Background(), matchID, c.userID, ev.Content); err != nil {
				c.send <- event{Type: eventError, Error: err.Error()}
			}
		case eventTyping:
			h.broadcastTyping(matchID, c)
		default:
			c.send <- event{Type: eventError, Error: "unknown event type"}
		}
	}
}

func (h *Handler) broadcastTyping(matchID string, from *client) {
	h.hub.mu.RLock()
	defer h.hub.mu.RUnlock()
	for c := range h.hub.rooms[matchID] {
		if c == from {
			continue
		}
		select {
		case c.send <- event{Type: eventTyping, Content: from.userID}:
		default:
		}
	}
}

func (h *Handler) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(writeWait))
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
