package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_AllowWithinLimit(t *testing.T) {
	l := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, remaining, err := l.Allow(ctx, "ip:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2-i, remaining)
	}

	ok, remaining, err := l.Allow(ctx, "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, remaining)

	ok, _, err = l.Allow(ctx, "ip:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")
}

func TestMemory_WindowSlides(t *testing.T) {
	l := NewMemory()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, _, _ := l.Allow(ctx, "k", 1, time.Minute)
	require.True(t, ok)
	ok, _, _ = l.Allow(ctx, "k", 1, time.Minute)
	require.False(t, ok)

	now = now.Add(time.Minute + time.Millisecond)
	ok, _, _ = l.Allow(ctx, "k", 1, time.Minute)
	assert.True(t, ok)
}

func TestMemory_EvictsIdleKeys(t *testing.T) {
	l := NewMemory()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		ok, _, err := l.Allow(ctx, fmt.Sprintf("forgot:198.51.100.%d", i), 5, 15*time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, 100, l.size())

	// Still inside every window: nothing is dropped.
	now = now.Add(10 * time.Minute)
	_, _, _ = l.Allow(ctx, "forgot:live", 5, 15*time.Minute)
	assert.Equal(t, 101, l.size())

	now = now.Add(6 * time.Minute)
	_, _, _ = l.Allow(ctx, "forgot:other", 5, 15*time.Minute)
	assert.Equal(t, 2, l.size(), "only keys with attempts inside their window remain")
}

func TestMemory_EvictionKeepsCounting(t *testing.T) {
	l := NewMemory()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.sweepEvery = 0
	ctx := context.Background()

	ok, _, _ := l.Allow(ctx, "k", 2, time.Minute)
	require.True(t, ok)
	now = now.Add(30 * time.Second)
	ok, _, _ = l.Allow(ctx, "k", 2, time.Minute)
	require.True(t, ok)
	ok, _, _ = l.Allow(ctx, "k", 2, time.Minute)
	assert.False(t, ok, "a sweep on every call must not forget live attempts")
}

func TestMemory_Concurrent(t *testing.T) {
	l := NewMemory()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := l.Allow(ctx, "shared", 10, time.Minute)
			if err == nil && ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}
