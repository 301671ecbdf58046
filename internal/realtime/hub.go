package realtime

import (
	"sync"

	"campuschat/pkg/logger"

	"go.uber.org/zap"
)

const userRoomPrefix = "user:"

// UserRoom returns the out-of-band room name for a user identity. Call
// invites are addressed here so they reach a user on any tab regardless
// of channel membership.
func UserRoom(userID string) string {
	return userRoomPrefix + userID
}

// Hub is the process-wide room registry: it maps live connections to the
// rooms they have joined and fans payloads out to them. Constructed once
// at server start and injected into every handler; all methods are safe
// for concurrent use and complete without suspension.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client              // by socket id
	rooms   map[string]map[*Client]struct{} // channel rooms and user:<id> rooms
	log     *logger.Logger
}

// NewHub creates a new hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[*Client]struct{}),
		log:     log,
	}
}

// Register adds a connected client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	h.log.Logger.Info("client connected",
		zap.String("socket_id", c.ID), zap.String("user_id", c.UserID))
}

// Unregister removes a client and all its room memberships, and closes
// its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	for room := range c.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	delete(h.clients, c.ID)
	c.closeSend()

	h.log.Logger.Info("client disconnected",
		zap.String("socket_id", c.ID), zap.String("user_id", c.UserID))
}

// Join subscribes a client to a room. Empty room names are ignored and
// joining a room twice is a no-op.
func (h *Hub) Join(c *Client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}
}

// Leave unsubscribes a client from a room.
func (h *Hub) Leave(c *Client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

// Broadcast sends a payload to every client in a room. Membership is
// resolved at call time.
func (h *Hub) Broadcast(room string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		c.SendMessage(payload)
	}
}

// BroadcastToUser sends a payload to every connection in the user's
// identity room.
func (h *Hub) BroadcastToUser(userID string, payload []byte) {
	h.Broadcast(UserRoom(userID), payload)
}

// BroadcastExcept sends to a room, skipping the given socket and, when
// exceptUserID is non-empty, every other connection of that identity.
func (h *Hub) BroadcastExcept(room, exceptSocketID, exceptUserID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if c.ID == exceptSocketID {
			continue
		}
		if exceptUserID != "" && c.UserID == exceptUserID {
			continue
		}
		c.SendMessage(payload)
	}
}

// SendToSocket delivers a payload to one connection by socket id.
// Returns false when the socket is no longer connected; callers decide
// whether that matters (call signaling silently drops).
func (h *Hub) SendToSocket(socketID string, payload []byte) bool {
	h.mu.RLock()
	c, ok := h.clients[socketID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	c.SendMessage(payload)
	return true
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize returns the number of clients joined to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
