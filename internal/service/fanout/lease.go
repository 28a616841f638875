package fanout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TickLease lets concurrent dispatcher instances agree on a single owner
// per due-window. It only trims redundant work: correctness always rests
// on the sink's unique constraint, so a lost or unavailable lease is
// never an error.
type TickLease interface {
	// Acquire claims the window starting at windowStart. False means
	// another instance already ran (or is running) this window's tick.
	Acquire(ctx context.Context, windowStart time.Time) (bool, error)
}

type redisTickLease struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTickLease keys the lease on the tiling-window grid so every
// instance evaluating the same window computes the same key. The TTL
// outlives the window by one width, covering a tick that drifts past
// its own window before finishing.
func NewRedisTickLease(client *redis.Client, window time.Duration) TickLease {
	return &redisTickLease{client: client, ttl: 2 * window}
}

func (l *redisTickLease) Acquire(ctx context.Context, windowStart time.Time) (bool, error) {
	key := fmt.Sprintf("fanout:tick:%d", windowStart.Unix())
	return l.client.SetNX(ctx, key, "1", l.ttl).Result()
}
