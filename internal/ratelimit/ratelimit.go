// Package ratelimit implements per-client fixed-window request limiting.
package ratelimit

import (
	"context"
	"time"
)

// Defaults: 20 generations per client per hour.
const (
	DefaultLimit  = 20
	DefaultWindow = time.Hour
)

// Limiter decides whether a client may make another request. Allow records
// the request when it is permitted.
type Limiter interface {
	Allow(ctx context.Context, key string, now time.Time) (bool, error)
}

type settings struct {
	limit   int
	window  time.Duration
	maxKeys int
	prefix  string
}

func newSettings(opts []Option) settings {
	s := settings{
		limit:  DefaultLimit,
		window: DefaultWindow,
		prefix: "mockpaper:ratelimit:",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a limiter.
type Option func(*settings)

// WithLimit sets the number of requests permitted per window.
func WithLimit(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithWindow sets the window length.
func WithWindow(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithMaxKeys bounds the number of clients a Memory limiter tracks. Zero
// means unbounded.
func WithMaxKeys(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.maxKeys = n
		}
	}
}

// WithKeyPrefix sets the key prefix used by the Redis limiter.
func WithKeyPrefix(prefix string) Option {
	return func(s *settings) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}
