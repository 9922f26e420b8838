// Package ratelimit provides sliding-window request limiters keyed by an
// arbitrary string, backed either by process memory or by Redis.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter records one attempt for key and reports whether it is within limit
// attempts per window, together with the attempts still available.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error)
}

const defaultSweepInterval = time.Minute

type windowEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
	window     time.Duration
	removed    bool
}

// idle reports whether every recorded attempt has left the window.
// The caller holds e.mu.
func (e *windowEntry) idle(now time.Time) bool {
	n := len(e.timestamps)
	return n == 0 || !e.timestamps[n-1].After(now.Add(-e.window))
}

// Memory is a per-process sliding window limiter. Keys whose window has
// emptied are dropped by a sweep that runs at most once per sweepEvery.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]*windowEntry
	now        func() time.Time
	sweepEvery time.Duration
	lastSweep  time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries:    make(map[string]*windowEntry),
		now:        time.Now,
		sweepEvery: defaultSweepInterval,
	}
}

func (m *Memory) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	now := m.now()
	entry := m.acquire(key, now)
	defer entry.mu.Unlock()

	entry.window = window
	cutoff := now.Add(-window)

	kept := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	entry.timestamps = kept

	if len(entry.timestamps) >= limit {
		return false, 0, nil
	}

	entry.timestamps = append(entry.timestamps, now)
	return true, limit - len(entry.timestamps), nil
}

// acquire returns the live entry for key with its lock held.
func (m *Memory) acquire(key string, now time.Time) *windowEntry {
	for {
		m.mu.Lock()
		if now.Sub(m.lastSweep) >= m.sweepEvery {
			m.sweep(now)
		}
		entry, ok := m.entries[key]
		if !ok {
			entry = &windowEntry{}
			m.entries[key] = entry
		}
		m.mu.Unlock()

		entry.mu.Lock()
		if !entry.removed {
			return entry
		}
		entry.mu.Unlock()
	}
}

// sweep drops idle keys. The caller holds m.mu.
func (m *Memory) sweep(now time.Time) {
	for key, entry := range m.entries {
		entry.mu.Lock()
		if entry.idle(now) {
			entry.removed = true
			delete(m.entries, key)
		}
		entry.mu.Unlock()
	}
	m.lastSweep = now
}

func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
