package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_RefillsOverTime(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tb := PerMinute(2)
	tb.now = func() time.Time { return clock }

	assert.True(t, tb.Allow("10.0.0.1"))
	assert.True(t, tb.Allow("10.0.0.1"))
	assert.False(t, tb.Allow("10.0.0.1"))

	clock = clock.Add(30 * time.Second)
	assert.True(t, tb.Allow("10.0.0.1"), "one token refills every 30s at 2/min")
	assert.False(t, tb.Allow("10.0.0.1"))
}

func TestTokenBucket_SweepDropsIdleKeys(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tb := PerMinute(5)
	tb.now = func() time.Time { return clock }

	tb.Allow("old")
	clock = clock.Add(11 * time.Minute)
	tb.Allow("fresh")

	assert.Equal(t, 1, tb.sweep(10*time.Minute))
	assert.Len(t, tb.buckets, 1)
	assert.Contains(t, tb.buckets, "fresh")
}
