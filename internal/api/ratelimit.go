package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/zodiacal/horoscope-api/pkg/config"
	"github.com/zodiacal/horoscope-api/pkg/logger"
	"github.com/zodiacal/horoscope-api/pkg/redis"
)

// writeLimiter bounds submit traffic. With Redis available it uses the
// shared sliding window so every instance draws from one budget;
// without Redis a per-process token bucket still caps a runaway
// client.
type writeLimiter struct {
	cfg      config.RateLimitConfig
	redis    *redis.RateLimiter
	local    *rate.Limiter
	useRedis bool
	log      *logger.Logger
}

func newWriteLimiter(cfg *config.Config, client *redis.Client, log *logger.Logger) *writeLimiter {
	limit := cfg.RateLimit.Limit
	if limit <= 0 {
		limit = 1
	}

	return &writeLimiter{
		cfg:      cfg.RateLimit,
		redis:    redis.NewRateLimiter(client, "horoscope"),
		local:    rate.NewLimiter(rate.Every(cfg.RateLimit.Window/time.Duration(limit)), limit),
		useRedis: client.Enabled(),
		log:      log,
	}
}

// allow reports whether the request may proceed and how much budget
// remains. Remaining is -1 when unknown.
func (l *writeLimiter) allow(r *http.Request) (bool, int) {
	if !l.cfg.Enabled {
		return true, -1
	}

	if l.useRedis {
		allowed, remaining, err := l.redis.Allow(r.Context(), redis.RateLimitConfig{
			Key:    "writes:" + clientIP(r),
			Limit:  l.cfg.Limit,
			Window: l.cfg.Window,
		})
		if err != nil {
			// Fail open: a cache outage must not block writes.
			l.log.WithError(err).Warn("Rate limit check failed")
			return true, -1
		}
		return allowed, remaining
	}

	if !l.local.Allow() {
		return false, 0
	}
	return true, int(l.local.Tokens())
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
