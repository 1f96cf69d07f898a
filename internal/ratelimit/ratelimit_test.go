package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryLimiter_BurstPerKey(t *testing.T) {
	l := NewInMemoryLimiter(0.001, 2)

	assert.True(t, l.Allow("www.instagram.com"))
	assert.True(t, l.Allow("www.instagram.com"))
	assert.False(t, l.Allow("www.instagram.com"))

	// other hosts have their own bucket
	assert.True(t, l.Allow("api.instagram.com"))
}

func TestInMemoryLimiter_Unlimited(t *testing.T) {
	l := NewInMemoryLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("host"))
	}
}

func TestInMemoryLimiter_WaitHonoursContext(t *testing.T) {
	l := NewInMemoryLimiter(0.001, 1)
	assert.NoError(t, l.Wait(context.Background(), "host"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "host"))
}
