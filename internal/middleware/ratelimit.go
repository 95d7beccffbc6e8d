package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/rueidis"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
)

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter keeps counters in process memory.
type MemoryLimiter struct {
	counters *cache.Cache
	limit    int
	window   time.Duration
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		counters: cache.New(window, 2*window),
		limit:    limit,
		window:   window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	if err := l.counters.Add(key, 1, l.window); err == nil {
		return true, nil
	}

	n, err := l.counters.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		l.counters.Set(key, 1, l.window)
		return true, nil
	}
	return n <= l.limit, nil
}

// RedisLimiter shares counters between instances through Redis.
type RedisLimiter struct {
	client rueidis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client rueidis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:",
	}
}

// Allow seeds the window's counter with its TTL and increments it in one
// round trip, so a counter never outlives its window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	resps := l.client.DoMulti(ctx,
		l.client.B().Set().Key(k).Value("0").Nx().ExSeconds(windowSeconds(l.window)).Build(),
		l.client.B().Incr().Key(k).Build(),
	)

	// SET NX replies nil when the window is already open
	if err := resps[0].Error(); err != nil && !rueidis.IsRedisNil(err) {
		return false, err
	}
	n, err := resps[1].AsInt64()
	if err != nil {
		return false, err
	}

	return n <= int64(l.limit), nil
}

// windowSeconds rounds up to whole seconds; Redis rejects an EX of 0.
func windowSeconds(window time.Duration) int64 {
	secs := int64((window + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// RateLimit rejects clients that exceed the limiter's budget. Limiter
// failures let the request through.
func RateLimit(limiter Limiter, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			apierrors.TooManyRequests(c, "")
			return
		}
		c.Next()
	}
}
