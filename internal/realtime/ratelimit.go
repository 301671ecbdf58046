package realtime

import (
	"sync"
	"time"
)

// Per-minute event budgets per connection.
type EventRateLimits struct {
	MaxMessages       int
	MaxTypingEvents   int
	MaxPresenceEvents int
	MaxCallSignals    int
	MaxJoins          int
}

var DefaultEventRateLimits = EventRateLimits{
	MaxMessages:       60,
	MaxTypingEvents:   60,
	MaxPresenceEvents: 30,
	MaxCallSignals:    120,
	MaxJoins:          60,
}

// EventRateLimiter tracks per-connection token buckets per event class,
// refilled once a minute.
type EventRateLimiter struct {
	mu             sync.Mutex
	messageTokens  int
	typingTokens   int
	presenceTokens int
	callTokens     int
	joinTokens     int
	lastRefill     time.Time
}

func NewEventRateLimiter() *EventRateLimiter {
	return &EventRateLimiter{
		messageTokens:  DefaultEventRateLimits.MaxMessages,
		typingTokens:   DefaultEventRateLimits.MaxTypingEvents,
		presenceTokens: DefaultEventRateLimits.MaxPresenceEvents,
		callTokens:     DefaultEventRateLimits.MaxCallSignals,
		joinTokens:     DefaultEventRateLimits.MaxJoins,
		lastRefill:     time.Now(),
	}
}

func (rl *EventRateLimiter) Allow(class eventClass) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastRefill) >= time.Minute {
		rl.refill()
		rl.lastRefill = time.Now()
	}

	switch class {
	case classMessage:
		if rl.messageTokens > 0 {
			rl.messageTokens--
			return true
		}
	case classTyping:
		if rl.typingTokens > 0 {
			rl.typingTokens--
			return true
		}
	case classPresence:
		if rl.presenceTokens > 0 {
			rl.presenceTokens--
			return true
		}
	case classCall:
		if rl.callTokens > 0 {
			rl.callTokens--
			return true
		}
	case classJoin:
		if rl.joinTokens > 0 {
			rl.joinTokens--
			return true
		}
	}
	return false
}

func (rl *EventRateLimiter) refill() {
	rl.messageTokens = DefaultEventRateLimits.MaxMessages
	rl.typingTokens = DefaultEventRateLimits.MaxTypingEvents
	rl.presenceTokens = DefaultEventRateLimits.MaxPresenceEvents
	rl.callTokens = DefaultEventRateLimits.MaxCallSignals
	rl.joinTokens = DefaultEventRateLimits.MaxJoins
}

type eventClass int

const (
	classJoin eventClass = iota
	classMessage
	classTyping
	classPresence
	classCall
)
