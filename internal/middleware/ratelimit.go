package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// NewRateLimiter uses redis when rdb is set, so every instance shares the
// counters, and an in-process limiter otherwise.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) RateLimiter {
	if rdb != nil {
		return &RedisRateLimiter{rdb: rdb, limit: limit, window: window, prefix: "rl"}
	}
	return NewLocalRateLimiter(limit, window, time.Now)
}

// BookingRateLimit caps requests per client ip and route. Limiter errors
// let the request through.
func BookingRateLimit(rl RateLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()

		d, err := rl.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		resetSeconds := int(math.Ceil(d.Reset.Seconds()))
		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(d.Reset).Unix(), 10))

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(resetSeconds))
			httperr.TooManyRequests(c, "rate_limited", "Trop de tentatives. Réessayez plus tard.")
			return
		}

		c.Next()
	}
}

// ======================================================
// REDIS (fixed window)
// ======================================================

type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindowScript.Run(ctx, rl.rdb, []string{rl.prefix + ":" + key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return Decision{}, err
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return Decision{}, fmt.Errorf("unexpected rate limit script result %T", res)
	}
	count, ok1 := vals[0].(int64)
	ttl, ok2 := vals[1].(int64)
	if !ok1 || !ok2 {
		return Decision{}, fmt.Errorf("unexpected rate limit script values %v", vals)
	}
	if ttl < 0 {
		ttl = rl.window.Milliseconds()
	}

	return decide(rl.limit, int(count), time.Duration(ttl)*time.Millisecond), nil
}

func decide(limit, count int, reset time.Duration) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		Reset:     reset,
	}
}

// ======================================================
// IN-PROCESS FALLBACK
// ======================================================

// LocalRateLimiter keeps one token bucket per key: limit tokens, refilled
// over window.
type LocalRateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	limiters map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// idle buckets are pruned once the map grows past this size
const maxVisitors = 4096

func NewLocalRateLimiter(limit int, window time.Duration, now func() time.Time) *LocalRateLimiter {
	return &LocalRateLimiter{
		limit:    limit,
		window:   window,
		now:      now,
		limiters: make(map[string]*visitor),
	}
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxVisitors {
			l.prune(now)
		}
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.limit)), l.limit)}
		l.limiters[key] = v
	}
	v.lastSeen = now

	allowed := v.limiter.AllowN(now, 1)
	tokens := v.limiter.TokensAt(now)

	d := Decision{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: int(math.Floor(tokens)),
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}

	perToken := l.window / time.Duration(l.limit)
	if allowed {
		d.Reset = time.Duration((float64(l.limit) - tokens) * float64(perToken))
	} else {
		d.Reset = time.Duration((1 - tokens) * float64(perToken))
	}
	return d, nil
}

func (l *LocalRateLimiter) prune(now time.Time) {
	for k, v := range l.limiters {
		if now.Sub(v.lastSeen) > l.window {
			delete(l.limiters, k)
		}
	}
}
