package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"hbnb_web/internal/adapters/observability"
)

// Guard is a domain.SubmitGuard shared by every web replica through Redis.
type Guard struct{ c *redis.Client }

func New(addr, pass string, db int) *Guard {
	return &Guard{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// NewWithClient wraps an existing client.
func NewWithClient(c *redis.Client) *Guard { return &Guard{c: c} }

func (g *Guard) Ping(ctx context.Context) error { return g.c.Ping(ctx).Err() }

func (g *Guard) Close() error { return g.c.Close() }

// Acquire sets key only if it is absent. ttl bounds how long a crashed
// request can hold the lock.
func (g *Guard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.c.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		observability.ObserveGuard("redis", "error")
		return false, err
	}
	if !ok {
		observability.ObserveGuard("redis", "busy")
		return false, nil
	}
	observability.ObserveGuard("redis", "acquired")
	return true, nil
}

func (g *Guard) Release(ctx context.Context, key string) error {
	if err := g.c.Del(ctx, key).Err(); err != nil {
		observability.ObserveGuard("redis", "error")
		return err
	}
	observability.ObserveGuard("redis", "released")
	return nil
}
