package rateLimit

import (
	"context"
	"time"

	redisadapter "github.com/robertarktes/webinar-seats/internal/adapters/redis"
)

const (
	actorPrefix = "rl:actor:"
	ipPrefix    = "rl:ip:"
)

// RateLimiter keeps fixed window counters in Redis, one per actor and one
// per client IP. A window starts with its first hit.
type RateLimiter struct {
	cache *redisadapter.Cache
}

func NewRateLimiter(cache *redisadapter.Cache) *RateLimiter {
	return &RateLimiter{cache: cache}
}

func ActorKey(actorID string) string {
	return actorPrefix + actorID
}

func IPKey(ip string) string {
	return ipPrefix + ip
}

func (rl *RateLimiter) AllowActor(ctx context.Context, actorID string, rate int, period time.Duration) bool {
	return rl.hit(ctx, ActorKey(actorID), rate, period)
}

func (rl *RateLimiter) AllowIP(ctx context.Context, ip string, rate int, period time.Duration) bool {
	return rl.hit(ctx, IPKey(ip), rate, period)
}

// hit denies when Redis cannot be reached.
func (rl *RateLimiter) hit(ctx context.Context, key string, rate int, period time.Duration) bool {
	pipe := rl.cache.Client().Pipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, period)
	if _, err := pipe.Exec(ctx); err != nil {
		return false
	}
	return count.Val() <= int64(rate)
}
