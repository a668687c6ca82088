package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tinggo/tinggo/internal/service"
)

func TestTokenBucket_Burst(t *testing.T) {
	tests := []struct {
		name    string
		limiter *service.TokenBucket
		allowed int
	}{
		{"per minute allows n at once", service.PerMinute(3), 3},
		{"zero rate never refills", service.NewTokenBucket(0, 2), 2},
		{"capacity one", service.NewTokenBucket(1, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range tt.allowed {
				assert.True(t, tt.limiter.Allow("192.0.2.10"), "attempt %d", i+1)
			}
			assert.False(t, tt.limiter.Allow("192.0.2.10"))
		})
	}
}

func TestTokenBucket_ClientsAreIndependent(t *testing.T) {
	tb := service.PerMinute(1)

	assert.True(t, tb.Allow("192.0.2.1"))
	assert.False(t, tb.Allow("192.0.2.1"))
	assert.True(t, tb.Allow("2001:db8::1"), "another client has its own bucket")
}

func TestTokenBucket_ConcurrentAllow(t *testing.T) {
	tb := service.PerMinute(50)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tb.Allow("198.51.100.7") {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, granted)
}

func TestTokenBucket_RunStopsWithContext(t *testing.T) {
	tb := service.PerMinute(5)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tb.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
