package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type window struct {
	count int
	start time.Time
}

// Memory is an in-process fixed-window limiter. All state is guarded by a
// single mutex, so concurrent callers for one key never exceed the limit.
type Memory struct {
	settings

	mu      sync.Mutex
	windows map[string]*window
}

// NewMemory creates an empty in-memory limiter.
func NewMemory(opts ...Option) *Memory {
	return &Memory{
		settings: newSettings(opts),
		windows:  make(map[string]*window),
	}
}

// Allow implements Limiter. It never returns an error.
func (m *Memory) Allow(_ context.Context, key string, now time.Time) (bool, error) {
	return m.CheckAndConsume(key, now), nil
}

// CheckAndConsume reports whether key may make a request at now and records
// it if so. A window older than the configured length starts over.
func (m *Memory) CheckAndConsume(key string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || now.Sub(w.start) > m.window {
		if !ok && m.maxKeys > 0 && len(m.windows) >= m.maxKeys {
			m.makeRoom(now)
		}
		m.windows[key] = &window{count: 1, start: now}
		return true
	}
	if w.count < m.limit {
		w.count++
		return true
	}
	return false
}

// makeRoom drops expired windows and, if the map is still full, the window
// that started first. Callers hold mu.
func (m *Memory) makeRoom(now time.Time) {
	m.sweepLocked(now)
	if len(m.windows) < m.maxKeys {
		return
	}
	var oldestKey string
	var oldest time.Time
	for k, w := range m.windows {
		if oldestKey == "" || w.start.Before(oldest) {
			oldestKey, oldest = k, w.start
		}
	}
	delete(m.windows, oldestKey)
}

// Sweep removes windows that have expired at now and returns how many were
// removed.
func (m *Memory) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(now)
}

func (m *Memory) sweepLocked(now time.Time) int {
	removed := 0
	for k, w := range m.windows {
		if now.Sub(w.start) > m.window {
			delete(m.windows, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// Run sweeps expired windows every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Sweep(now); n > 0 {
				slog.Debug("rate limit sweep", "removed", n, "remaining", m.Len())
			}
		}
	}
}
