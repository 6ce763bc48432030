package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func TestMemoryFixedWindow(t *testing.T) {
	m := NewMemory()

	for i := 1; i <= DefaultLimit; i++ {
		if !m.CheckAndConsume("1.2.3.4", epoch.Add(time.Duration(i)*time.Minute)) {
			t.Fatalf("call %d should be permitted", i)
		}
	}
	if m.CheckAndConsume("1.2.3.4", epoch.Add(30*time.Minute)) {
		t.Fatal("call 21 should be denied")
	}
	if !m.CheckAndConsume("5.6.7.8", epoch.Add(30*time.Minute)) {
		t.Fatal("other clients should not be affected")
	}

	// The window started at the first call, one minute after epoch.
	start := epoch.Add(time.Minute)
	if m.CheckAndConsume("1.2.3.4", start.Add(DefaultWindow)) {
		t.Fatal("call exactly one window after the start should still be denied")
	}
	if !m.CheckAndConsume("1.2.3.4", start.Add(DefaultWindow+time.Nanosecond)) {
		t.Fatal("call after the window should be permitted")
	}
	for i := 2; i <= DefaultLimit; i++ {
		if !m.CheckAndConsume("1.2.3.4", start.Add(DefaultWindow+time.Second)) {
			t.Fatalf("call %d of the new window should be permitted", i)
		}
	}
	if m.CheckAndConsume("1.2.3.4", start.Add(DefaultWindow+time.Second)) {
		t.Fatal("new window should deny once the limit is reached again")
	}
}

func TestMemoryOptions(t *testing.T) {
	m := NewMemory(WithLimit(2), WithWindow(time.Minute))
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		got, err := m.Allow(ctx, "k", epoch)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if got != want {
			t.Errorf("call %d: Allow() = %v, want %v", i+1, got, want)
		}
	}
	if ok, _ := m.Allow(ctx, "k", epoch.Add(time.Minute+time.Millisecond)); !ok {
		t.Error("window should reset after one minute")
	}

	// Invalid values keep the defaults.
	d := NewMemory(WithLimit(0), WithWindow(-time.Second), WithMaxKeys(-1))
	if d.limit != DefaultLimit || d.window != DefaultWindow || d.maxKeys != 0 {
		t.Errorf("defaults not kept: %+v", d.settings)
	}
}

func TestMemoryConcurrent(t *testing.T) {
	m := NewMemory()

	var permitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.CheckAndConsume("shared", epoch) {
				permitted.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := permitted.Load(); got != DefaultLimit {
		t.Errorf("permitted %d concurrent calls, want %d", got, DefaultLimit)
	}
}

func TestMemorySweep(t *testing.T) {
	m := NewMemory(WithWindow(time.Minute))
	m.CheckAndConsume("old", epoch)
	m.CheckAndConsume("new", epoch.Add(50*time.Second))

	if n := m.Sweep(epoch.Add(30 * time.Second)); n != 0 {
		t.Errorf("Sweep removed %d live windows", n)
	}
	if n := m.Sweep(epoch.Add(61 * time.Second)); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMemoryMaxKeys(t *testing.T) {
	tests := []struct {
		name     string
		lastSeen time.Duration
		evicted  string
	}{
		// All windows live: the one that started first goes.
		{"evicts oldest", 10 * time.Second, "c0"},
		// Expired windows are swept before anything live is evicted.
		{"sweeps expired first", 2 * time.Minute, "c0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(WithWindow(time.Minute), WithMaxKeys(3))
			for i := 0; i < 3; i++ {
				m.CheckAndConsume(fmt.Sprintf("c%d", i), epoch.Add(time.Duration(i)*time.Second))
			}
			m.CheckAndConsume("c3", epoch.Add(tt.lastSeen))

			if m.Len() > 3 {
				t.Fatalf("Len() = %d, want <= 3", m.Len())
			}
			m.mu.Lock()
			_, stillThere := m.windows[tt.evicted]
			_, added := m.windows["c3"]
			m.mu.Unlock()
			if stillThere {
				t.Errorf("%s should have been evicted", tt.evicted)
			}
			if !added {
				t.Error("new client should be tracked")
			}
		})
	}
}

func TestMemoryMaxKeysExistingClient(t *testing.T) {
	m := NewMemory(WithMaxKeys(1))
	m.CheckAndConsume("a", epoch)
	if !m.CheckAndConsume("a", epoch.Add(time.Second)) {
		t.Fatal("known client should not trigger eviction")
	}
	m.mu.Lock()
	count := m.windows["a"].count
	m.mu.Unlock()
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestMemoryRun(t *testing.T) {
	m := NewMemory(WithWindow(time.Millisecond))
	m.CheckAndConsume("gone", time.Now().Add(-time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for m.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("Run did not sweep the expired window")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
