package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindow trims expired entries, checks the budget and records the
// request in one atomic round trip. Declared at package level so go-redis
// can run it by SHA after the first call.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local floor = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl_ms = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', floor)
local used = redis.call('ZCARD', key)
if used >= limit then
	return {0, 0}
end

redis.call('ZADD', key, now, ARGV[5])
redis.call('PEXPIRE', key, ttl_ms)
return {1, limit - used - 1}
`)

// RateLimiter is a sliding-window limiter over Redis sorted sets. With
// Redis disabled every request passes; callers that need a guarantee
// without Redis must bring their own in-process limiter.
type RateLimiter struct {
	client *Client
	prefix string
	seq    atomic.Int64
}

// RateLimitConfig defines one bucket.
type RateLimitConfig struct {
	Key    string        // bucket identifier (e.g. "submit")
	Limit  int           // maximum requests allowed in the window
	Window time.Duration // sliding window size
}

// NewRateLimiter creates a limiter namespacing its keys under
// "<prefix>:ratelimit:".
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix}
}

// Allow reports whether the request fits the bucket and how much budget
// remains after it.
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, nil
	}

	now := time.Now().UnixMilli()
	// Sorted-set members must be unique or same-millisecond requests
	// collapse into one entry and the window undercounts.
	member := strconv.FormatInt(now, 10) + "-" + strconv.FormatInt(r.seq.Add(1), 10)

	res, err := slidingWindow.Run(ctx, r.client.Redis(),
		[]string{r.prefix + ":ratelimit:" + cfg.Key},
		now,
		now-cfg.Window.Milliseconds(),
		cfg.Limit,
		cfg.Window.Milliseconds(),
		member,
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("rate limit script returned %d values", len(res))
	}

	return res[0] == 1, int(res[1]), nil
}
