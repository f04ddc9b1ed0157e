package ws

import (
	"sync"

	"github.com/dating-api/internal/domain"
)

// Hub tracks live chat connections per match room and fans messages out to
// them. All methods are safe for concurrent use.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*client]struct{})}
}

func (h *Hub) join(matchID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[matchID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[matchID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(matchID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[matchID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, matchID)
	}
}

// Broadcast delivers a persisted message to every live connection in the
// match room. Slow clients are skipped rather than blocking the sender.
func (h *Hub) Broadcast(matchID string, m *domain.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[matchID] {
		select {
		case c.send <- event{Type: eventMessage, Message: m}:
		default:
		}
	}
}

// roomSize reports how many connections a match room currently has.
func (h *Hub) roomSize(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}
