package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)
	if count >= limit then
		return {0, 0}
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window_ms)

	return {1, limit - count - 1}
`)

// Redis is a sliding window limiter shared by every server instance.
type Redis struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "marma:ratelimit:"
	}
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	now := r.now()
	result, err := slidingWindowScript.Run(ctx, r.client, []string{r.prefix + key},
		now.UnixMilli(),
		now.Add(-window).UnixMilli(),
		limit,
		window.Milliseconds(),
		uuid.NewString(),
	).Result()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit.Redis.Allow: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) != 2 {
		return false, 0, errors.New("ratelimit.Redis.Allow: unexpected script result")
	}
	allowed, _ := arr[0].(int64)
	remaining, _ := arr[1].(int64)
	return allowed == 1, int(remaining), nil
}
