package ws

import (
	"sync"

	"github.com/linkin-purry/chat-service/internal/domain"
)

type Conn interface {
	Send(msg Message) error
	Close() error
	UserID() domain.UserID
}

// Hub is the identity -> live-connections mapping. A user may hold several
// connections at once (tabs, devices); emit fans out to all of them. This is
// the only shared mutable state in the router and it is guarded here, not by
// callers.
type Hub struct {
	mu       sync.RWMutex
	channels map[domain.UserID]map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{channels: make(map[domain.UserID]map[Conn]struct{})}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cs, ok := h.channels[c.UserID()]
	if !ok {
		cs = make(map[Conn]struct{})
		h.channels[c.UserID()] = cs
	}
	cs[c] = struct{}{}
}

func (h *Hub) Remove(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cs, ok := h.channels[c.UserID()]; ok {
		delete(cs, c)
		if len(cs) == 0 {
			delete(h.channels, c.UserID())
		}
	}
}

// Emit sends msg to every live connection of userID and reports how many
// connections it reached. Zero is not an error: the user is offline.
func (h *Hub) Emit(userID domain.UserID, msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cs, ok := h.channels[userID]
	if !ok {
		return 0
	}
	for c := range cs {
		_ = c.Send(msg) // best-effort
	}
	return len(cs)
}
