package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the per-browser-tab rejoin cache: the set of rooms a client
// has joined, surviving transport drops. On reconnect with the same
// session key the hub replays every recorded join before the read loop
// starts, so clients never special-case reconnection.
type Session struct {
	Key string

	mu              sync.Mutex
	joinedChannels  map[string]struct{}
	joinedUserRooms map[string]struct{}
	lastSeen        time.Time
}

func newSession(key string) *Session {
	return &Session{
		Key:             key,
		joinedChannels:  make(map[string]struct{}),
		joinedUserRooms: make(map[string]struct{}),
		lastSeen:        time.Now(),
	}
}

func (s *Session) RecordChannel(channelID string) {
	if channelID == "" {
		return
	}
	s.mu.Lock()
	s.joinedChannels[channelID] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) RecordUserRoom(userID string) {
	if userID == "" {
		return
	}
	s.mu.Lock()
	s.joinedUserRooms[userID] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) Channels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.joinedChannels))
	for ch := range s.joinedChannels {
		out = append(out, ch)
	}
	return out
}

func (s *Session) UserRooms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.joinedUserRooms))
	for u := range s.joinedUserRooms {
		out = append(out, u)
	}
	return out
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// SessionStore holds sessions by key. Entries idle past the TTL are
// dropped by Sweep; an expired key simply yields a fresh session.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Acquire returns the session for key, creating it if absent. An empty
// key gets a fresh session under a new key.
func (st *SessionStore) Acquire(key string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if key == "" {
		key = uuid.New().String()
	}
	s, ok := st.sessions[key]
	if !ok {
		s = newSession(key)
		st.sessions[key] = s
	}
	s.touch()
	return s
}

// ReplayJoins re-subscribes a reconnected client to everything its
// session recorded.
func (st *SessionStore) ReplayJoins(hub *Hub, c *Client) {
	s := c.session
	if s == nil {
		return
	}
	for _, ch := range s.Channels() {
		hub.Join(c, ch)
	}
	for _, u := range s.UserRooms() {
		hub.Join(c, UserRoom(u))
	}
}

// Sweep drops sessions idle past the TTL.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := time.Now().Add(-st.ttl)
	removed := 0
	for key, s := range st.sessions {
		s.mu.Lock()
		stale := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(st.sessions, key)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until the context is canceled.
func (st *SessionStore) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}
