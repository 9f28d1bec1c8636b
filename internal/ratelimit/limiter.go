package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// LimitResult is the outcome of a rate limit check.
type LimitResult struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter performs sliding-window rate limiting backed by Redis sorted sets.
type Limiter struct {
	rdb *redis.Client
	now func() time.Time
}

// NewLimiter creates a new rate limiter. If rdb is nil, all checks pass (fail open).
func NewLimiter(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb, now: time.Now}
}

// slidingWindowScript atomically: removes expired entries, adds current, counts.
// KEYS[1] = sorted set key
// ARGV[1] = window start (unix micro)
// ARGV[2] = now (unix micro), used as the score
// ARGV[3] = limit
// ARGV[4] = TTL seconds for the key
// Returns: [current_count, 1=allowed/0=denied, oldest_score]
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, ttl)
    local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    return {count + 1, 1, tonumber(first[2])}
end

redis.call('EXPIRE', key, ttl)
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
return {count, 0, tonumber(first[2])}
`)

// Check performs a sliding-window rate limit check.
// key: the rate limit bucket identifier
// limit: maximum allowed requests in the window
// window: the sliding window duration
func (l *Limiter) Check(ctx context.Context, key string, limit int64, window time.Duration) (LimitResult, error) {
	now := l.now()
	if l.rdb == nil {
		return LimitResult{Allowed: true, Limit: limit, Remaining: limit - 1, ResetAt: now.Add(window)}, nil
	}

	windowStart := now.Add(-window).UnixMicro()
	ttlSecs := int64(window.Seconds()) + 1
	redisKey := fmt.Sprintf("draftgen:rl:%s", key)

	res, err := slidingWindowScript.Run(ctx, l.rdb, []string{redisKey},
		windowStart, now.UnixMicro(), limit, ttlSecs,
	).Int64Slice()
	if err != nil || len(res) < 3 {
		// Fail open on Redis errors
		slog.Warn("rate limit check failed, allowing request", "key", redisKey, "error", err)
		return LimitResult{Allowed: true, Limit: limit, Remaining: limit, ResetAt: now.Add(window)}, nil
	}

	return windowResult(now, window, limit, res[0], res[1] == 1, time.UnixMicro(res[2])), nil
}

// windowResult derives the caller-facing numbers from the script output.
// The window frees a slot when its oldest entry ages out.
func windowResult(now time.Time, window time.Duration, limit, count int64, allowed bool, oldest time.Time) LimitResult {
	remaining := max(limit-count, 0)
	resetAt := oldest.Add(window)
	if !resetAt.After(now) {
		resetAt = now.Add(window)
	}

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(resetAt.Sub(now), time.Second)
	}

	return LimitResult{
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
	}
}
