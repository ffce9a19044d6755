package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a JSON read-through cache on top of the shared client. With
// Redis disabled every lookup is a miss and every write a no-op, which
// keeps the service layer free of availability branches.
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a cache helper. All keys live under "<prefix>:cache:".
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(k string) string {
	return c.prefix + ":cache:" + k
}

// Get unmarshals the cached value into dest. The bool reports whether the
// key was present; an absent key is not an error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache read failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

// Set stores value as JSON under key for the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return c.client.Redis().Set(ctx, c.key(key), data, ttl).Err()
}

// Delete drops the given keys. Missing keys are ignored.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.client.Enabled() || len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Redis().Del(ctx, full...).Err()
}

// Horoscope content is stable for its period; submit invalidates eagerly,
// the TTL is only a backstop.
const (
	TTLRecord = 24 * time.Hour // single daily/weekly record
	TTLList   = 24 * time.Hour // per-period record lists
)

// Cache key builders. Dates are YYYY-MM-DD strings; weekly keys always use
// the Monday week-start date.

func DailyKey(signID int, date string) string {
	return fmt.Sprintf("daily:%d:%s", signID, date)
}

func WeeklyKey(signID int, weekStart string) string {
	return fmt.Sprintf("weekly:%d:%s", signID, weekStart)
}

func DailyListKey(date string) string {
	return "daily:all:" + date
}

func WeeklyListKey(weekStart string) string {
	return "weekly:all:" + weekStart
}
