package realtime

import (
	"sync"

	"github.com/iskra-app/backend/internal/observability"
)

// Hub groups live sessions into per-conversation rooms and fans broadcasts
// out to every session currently joined. Membership is connection-scoped:
// nothing survives a disconnect, rejoining is entirely client-driven.
type Hub struct {
	mu           sync.RWMutex
	rooms        map[string]map[string]*Session
	sessionRooms map[string]map[string]struct{}

	relay *Relay
}

func NewHub() *Hub {
	return &Hub{
		rooms:        make(map[string]map[string]*Session),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// UseRelay enables cross-instance fan-out. Must be called before the hub
// starts receiving traffic.
func (h *Hub) UseRelay(r *Relay) {
	h.relay = r
}

// Join adds the session to the conversation's room. Joining a room the
// session is already in is a no-op, so a rejoin never causes duplicate
// delivery.
func (h *Hub) Join(s *Session, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[string]*Session)
	}
	h.rooms[conversationID][s.ID] = s

	if h.sessionRooms[s.ID] == nil {
		h.sessionRooms[s.ID] = make(map[string]struct{})
	}
	h.sessionRooms[s.ID][conversationID] = struct{}{}
}

// Detach removes the session from every room it joined. Called exactly once
// when the connection drops; no other cleanup is required.
func (h *Hub) Detach(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conversationID := range h.sessionRooms[s.ID] {
		if room, ok := h.rooms[conversationID]; ok {
			delete(room, s.ID)
			if len(room) == 0 {
				delete(h.rooms, conversationID)
			}
		}
	}
	delete(h.sessionRooms, s.ID)
}

// Broadcast delivers payload to every session joined to the room at this
// moment, at most once per session, and relays it to peer instances when a
// relay is configured. Sessions that join later never see this event; they
// recover through the historical fetch.
func (h *Hub) Broadcast(room string, payload []byte) {
	h.DeliverLocal(room, payload)

	if h.relay != nil {
		h.relay.Publish(room, payload)
	}
}

// DeliverLocal fans payload out to this instance's sessions only.
func (h *Hub) DeliverLocal(room string, payload []byte) {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.rooms[room]))
	for _, s := range h.rooms[room] {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		s.TrySend(payload)
	}

	observability.BroadcastFanout.WithLabelValues("iskra-backend").Observe(float64(len(sessions)))
}

// Rooms reports how many sessions are joined to the given room.
func (h *Hub) Rooms(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}

// CloseAll terminates every session. Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	sessions := make(map[string]*Session)
	for _, room := range h.rooms {
		for id, s := range room {
			sessions[id] = s
		}
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
