package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrWindow increments the counter and starts its expiry on the first hit
// of a window.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Redis is a fixed-window limiter shared by every server using the same
// Redis database. Windows expire through key TTLs.
type Redis struct {
	settings
	client redis.Scripter
}

// NewRedis creates a limiter backed by client.
func NewRedis(client redis.Scripter, opts ...Option) *Redis {
	return &Redis{settings: newSettings(opts), client: client}
}

// Allow implements Limiter. now is unused; the window is measured by Redis.
func (r *Redis) Allow(ctx context.Context, key string, _ time.Time) (bool, error) {
	n, err := incrWindow.Run(ctx, r.client, []string{r.prefix + key}, r.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit %q: %w", key, err)
	}
	return n <= int64(r.limit), nil
}
