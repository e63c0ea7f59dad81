package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimiter decides whether a caller identified by key may proceed
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisRateLimiter is a fixed window limiter shared by every instance
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := rl.now().UnixNano() / int64(rl.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, rl.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	return incr.Val() <= int64(rl.limit), nil
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter is a per-process token bucket per key
type LocalRateLimiter struct {
	mu       sync.Mutex
	entries  map[string]*localEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	lastScan time.Time
}

// NewLocalRateLimiter allows perMinute requests per key with the given burst
func NewLocalRateLimiter(perMinute, burst int) *LocalRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LocalRateLimiter{
		entries: make(map[string]*localEntry),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		idleTTL: 10 * time.Minute,
	}
}

func (rl *LocalRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.cleanup(now)

	entry, ok := rl.entries[key]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1), nil
}

// cleanup drops idle keys at most once per idle period
func (rl *LocalRateLimiter) cleanup(now time.Time) {
	if now.Sub(rl.lastScan) < rl.idleTTL {
		return
	}
	rl.lastScan = now
	for key, entry := range rl.entries {
		if now.Sub(entry.lastSeen) > rl.idleTTL {
			delete(rl.entries, key)
		}
	}
}

// FallbackRateLimiter asks primary and falls back to a local limiter when
// primary errors
type FallbackRateLimiter struct {
	primary  RateLimiter
	fallback RateLimiter
	logger   *logrus.Logger
}

func NewFallbackRateLimiter(primary, fallback RateLimiter, logger *logrus.Logger) *FallbackRateLimiter {
	return &FallbackRateLimiter{primary: primary, fallback: fallback, logger: logger}
}

func (rl *FallbackRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if rl.primary != nil {
		allowed, err := rl.primary.Allow(ctx, key)
		if err == nil {
			return allowed, nil
		}
		rl.logger.WithError(err).Debug("Shared rate limiter unavailable, using local limiter")
	}
	return rl.fallback.Allow(ctx, key)
}
