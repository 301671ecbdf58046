package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventRateLimiterExhaustsPerClass(t *testing.T) {
	rl := NewEventRateLimiter()

	for i := 0; i < DefaultEventRateLimits.MaxPresenceEvents; i++ {
		assert.True(t, rl.Allow(classPresence))
	}
	assert.False(t, rl.Allow(classPresence))

	// other classes keep their own budgets
	assert.True(t, rl.Allow(classMessage))
	assert.True(t, rl.Allow(classJoin))
}

func TestEventRateLimiterRefillsAfterWindow(t *testing.T) {
	rl := NewEventRateLimiter()

	for i := 0; i < DefaultEventRateLimits.MaxMessages; i++ {
		rl.Allow(classMessage)
	}
	assert.False(t, rl.Allow(classMessage))

	rl.mu.Lock()
	rl.lastRefill = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	assert.True(t, rl.Allow(classMessage))
}
