package services

import (
	"context"
	"sync"
	"time"

	"campuschat/internal/events"
	"campuschat/pkg/logger"

	"go.uber.org/zap"
)

const (
	DefaultTypingTTL   = 6 * time.Second
	DefaultPresenceTTL = 30 * time.Second
)

// PresenceMirror receives best-effort copies of ephemeral state so a
// snapshot can be served to clients without a socket. Failures are
// logged, never propagated. Satisfied by redis.PresenceStore.
type PresenceMirror interface {
	TrackPresence(ctx context.Context, channelID, userID string, online bool) error
	TrackTyping(ctx context.Context, channelID, userID string, isTyping bool) error
}

// PresenceSnapshot is the point-in-time view of a channel's ephemeral
// state after expired entries are pruned.
type PresenceSnapshot struct {
	ChannelID   string   `json:"channelId"`
	OnlineUsers []string `json:"onlineUsers"`
	TypingUsers []string `json:"typingUsers"`
}

// PresenceService tracks ephemeral typing and presence state per channel.
// It is lossy and best-effort: a missed "stopped typing" self-heals via
// the expiry window. Nothing here is persisted or authoritative for
// anything but live indicators.
type PresenceService struct {
	broadcaster Broadcaster
	mirror      PresenceMirror
	log         *logger.Logger
	now         func() time.Time
	typingTTL   time.Duration
	presenceTTL time.Duration

	mu     sync.Mutex
	typing map[string]map[string]time.Time // channelId -> userId -> last heartbeat
	seen   map[string]map[string]time.Time // channelId -> userId -> last seen
}

func NewPresenceService(broadcaster Broadcaster, mirror PresenceMirror, log *logger.Logger, typingTTL, presenceTTL time.Duration) *PresenceService {
	if typingTTL == 0 {
		typingTTL = DefaultTypingTTL
	}
	if presenceTTL == 0 {
		presenceTTL = DefaultPresenceTTL
	}
	return &PresenceService{
		broadcaster: broadcaster,
		mirror:      mirror,
		log:         log,
		now:         time.Now,
		typingTTL:   typingTTL,
		presenceTTL: presenceTTL,
		typing:      make(map[string]map[string]time.Time),
		seen:        make(map[string]map[string]time.Time),
	}
}

// SetClock overrides the time source. Test hook.
func (s *PresenceService) SetClock(now func() time.Time) { s.now = now }

// SetTyping records or clears a typing heartbeat and rebroadcasts the raw
// event to the room; listeners do their own debounce and expiry.
func (s *PresenceService) SetTyping(ctx context.Context, p events.TypingPayload) {
	if p.ChannelID == "" || p.UserID == "" {
		return
	}

	s.mu.Lock()
	if p.IsTyping {
		if s.typing[p.ChannelID] == nil {
			s.typing[p.ChannelID] = make(map[string]time.Time)
		}
		s.typing[p.ChannelID][p.UserID] = s.now()
	} else {
		delete(s.typing[p.ChannelID], p.UserID)
	}
	s.mu.Unlock()

	s.broadcaster.Broadcast(p.ChannelID, events.Encode(events.EventTyping, p))

	if s.mirror != nil {
		if err := s.mirror.TrackTyping(ctx, p.ChannelID, p.UserID, p.IsTyping); err != nil {
			s.log.Logger.Warn("typing mirror failed", zap.String("channel_id", p.ChannelID), zap.Error(err))
		}
	}
}

// SetPresence records or clears a presence heartbeat and rebroadcasts the
// raw event to the room.
func (s *PresenceService) SetPresence(ctx context.Context, p events.PresencePayload) {
	if p.ChannelID == "" || p.UserID == "" {
		return
	}

	s.mu.Lock()
	if p.Online {
		if s.seen[p.ChannelID] == nil {
			s.seen[p.ChannelID] = make(map[string]time.Time)
		}
		s.seen[p.ChannelID][p.UserID] = s.now()
	} else {
		delete(s.seen[p.ChannelID], p.UserID)
	}
	s.mu.Unlock()

	s.broadcaster.Broadcast(p.ChannelID, events.Encode(events.EventPresence, p))

	if s.mirror != nil {
		if err := s.mirror.TrackPresence(ctx, p.ChannelID, p.UserID, p.Online); err != nil {
			s.log.Logger.Warn("presence mirror failed", zap.String("channel_id", p.ChannelID), zap.Error(err))
		}
	}
}

// Snapshot prunes expired entries and returns who is online and typing.
func (s *PresenceService) Snapshot(channelID string) PresenceSnapshot {
	now := s.now()
	snap := PresenceSnapshot{
		ChannelID:   channelID,
		OnlineUsers: []string{},
		TypingUsers: []string{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, last := range s.typing[channelID] {
		if now.Sub(last) > s.typingTTL {
			delete(s.typing[channelID], userID)
			continue
		}
		snap.TypingUsers = append(snap.TypingUsers, userID)
	}
	for userID, last := range s.seen[channelID] {
		if now.Sub(last) > s.presenceTTL {
			delete(s.seen[channelID], userID)
			continue
		}
		snap.OnlineUsers = append(snap.OnlineUsers, userID)
	}
	return snap
}
