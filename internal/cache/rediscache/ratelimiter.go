package rediscache

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit"

// RateLimiter: фиксированное окно в Redis, общее для всех реплик API.
type RateLimiter struct {
	c   *redis.Client
	now func() time.Time
}

func NewRateLimiterFromClient(c *redis.Client) *RateLimiter {
	return &RateLimiter{c: c, now: time.Now}
}

func (rl *RateLimiter) bucket(subject string, window time.Duration) string {
	start := rl.now().Truncate(window).Unix()
	return rateLimitPrefix + ":" + subject + ":" + strconv.FormatInt(start, 10)
}

// Allow считает запрос subject в текущем окне.
// Возвращает (allowed, счётчик окна).
func (rl *RateLimiter) Allow(ctx context.Context, subject string, limit int64, window time.Duration) (bool, int64, error) {
	if window <= 0 {
		window = time.Minute
	}
	key := rl.bucket(subject, window)

	pipe := rl.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, errors.Wrap(err, "redis ratelimit")
	}
	n := incr.Val()
	return n <= limit, n, nil
}
