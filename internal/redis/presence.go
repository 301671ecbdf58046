package redis

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Redis key prefixes for presence mirroring
const (
	presenceKeyPrefix = "presence:" // Sorted set per channel, score = last-seen unix ms
	typingKeyPrefix   = "typing:"   // Sorted set per channel, score = last-heartbeat unix ms
)

// PresenceStore mirrors the in-memory presence/typing state into Redis so
// REST clients can cold-start a channel snapshot without a socket. The
// in-memory tracker stays authoritative for broadcasts; this mirror is
// best-effort.
type PresenceStore struct {
	client      *goredis.Client
	typingTTL   time.Duration
	presenceTTL time.Duration
}

// NewPresenceStore creates a new presence store
func NewPresenceStore(client *goredis.Client, typingTTL, presenceTTL time.Duration) *PresenceStore {
	if typingTTL == 0 {
		typingTTL = 6 * time.Second
	}
	if presenceTTL == 0 {
		presenceTTL = 30 * time.Second
	}
	return &PresenceStore{client: client, typingTTL: typingTTL, presenceTTL: presenceTTL}
}

// TrackPresence records a presence heartbeat for a user in a channel.
func (p *PresenceStore) TrackPresence(ctx context.Context, channelID, userID string, online bool) error {
	key := presenceKeyPrefix + channelID
	if !online {
		return p.client.ZRem(ctx, key, userID).Err()
	}

	now := time.Now()
	pipe := p.client.Pipeline()
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixMilli()), Member: userID})
	pipe.Expire(ctx, key, p.presenceTTL*2)
	_, err := pipe.Exec(ctx)
	return err
}

// TrackTyping records or clears a typing heartbeat for a user in a channel.
func (p *PresenceStore) TrackTyping(ctx context.Context, channelID, userID string, isTyping bool) error {
	key := typingKeyPrefix + channelID
	if !isTyping {
		return p.client.ZRem(ctx, key, userID).Err()
	}

	now := time.Now()
	pipe := p.client.Pipeline()
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixMilli()), Member: userID})
	pipe.Expire(ctx, key, p.typingTTL*2)
	_, err := pipe.Exec(ctx)
	return err
}

// GetOnlineUsers returns users with a presence heartbeat inside the window.
func (p *PresenceStore) GetOnlineUsers(ctx context.Context, channelID string) ([]string, error) {
	return p.activeMembers(ctx, presenceKeyPrefix+channelID, p.presenceTTL)
}

// GetTypingUsers returns users with a typing heartbeat inside the window.
func (p *PresenceStore) GetTypingUsers(ctx context.Context, channelID string) ([]string, error) {
	return p.activeMembers(ctx, typingKeyPrefix+channelID, p.typingTTL)
}

func (p *PresenceStore) activeMembers(ctx context.Context, key string, window time.Duration) ([]string, error) {
	threshold := time.Now().Add(-window).UnixMilli()

	// Prune expired heartbeats while reading; keeps the sets bounded.
	pipe := p.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(threshold, 10))
	members := pipe.ZRangeByScore(ctx, key, &goredis.ZRangeBy{
		Min: strconv.FormatInt(threshold, 10),
		Max: "+inf",
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return members.Result()
}
