package upload

import (
	"context"
	"fmt"
	"time"

	"go-talent-marketplace/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// Limiter enforces upload quotas with a Redis sliding window: a short
// per-IP window against burst abuse and a daily per-user cap.
type Limiter struct {
	maxPerMinute int
	maxPerDay    int
}

// Sliding window check, atomic via Lua.
// KEYS[1] = quota key
// ARGV[1] = max count, ARGV[2] = window seconds, ARGV[3] = now (unix)
// Returns 1 when allowed, 0 when over quota.
const slidingWindowScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local count = redis.call('ZCARD', key)
if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random(1000000))
redis.call('EXPIRE', key, window)
return 1
`

// NewLimiter creates an upload quota limiter.
// Defaults: 10 uploads/min per IP, 50 uploads/day per user.
func NewLimiter(perMin, perDay int) *Limiter {
	if perMin <= 0 {
		perMin = 10
	}
	if perDay <= 0 {
		perDay = 50
	}
	return &Limiter{maxPerMinute: perMin, maxPerDay: perDay}
}

// Allow reports whether an upload may proceed.
// Returns (allowed, retryAfterSeconds, error).
// Fails open without Redis so uploads keep working in local development.
func (l *Limiter) Allow(ctx context.Context, ip, userID string) (bool, int, error) {
	client := redis.Client()
	if client == nil {
		return true, 0, fmt.Errorf("upload limiter unavailable: redis not connected")
	}

	now := time.Now().Unix()

	ipKey := "quota:upload:ip:" + ip
	allowed, err := l.check(ctx, client, ipKey, l.maxPerMinute, 60, now)
	if err != nil {
		return false, 60, fmt.Errorf("upload quota check failed: %w", err)
	}
	if !allowed {
		return false, 60, nil
	}

	if userID != "" {
		userKey := "quota:upload:user:" + userID
		allowed, err = l.check(ctx, client, userKey, l.maxPerDay, 86400, now)
		if err != nil {
			return false, 3600, fmt.Errorf("upload quota check failed: %w", err)
		}
		if !allowed {
			return false, 3600, nil
		}
	}

	return true, 0, nil
}

func (l *Limiter) check(ctx context.Context, client *goredis.Client, key string, limit, window int, now int64) (bool, error) {
	result, err := client.Eval(ctx, slidingWindowScript, []string{key}, limit, window, now).Result()
	if err != nil {
		return false, err
	}
	n, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from quota script")
	}
	return n == 1, nil
}

// Remaining returns how many uploads remain for the IP and user windows.
func (l *Limiter) Remaining(ctx context.Context, ip, userID string) (int, int, error) {
	client := redis.Client()
	if client == nil {
		return 0, 0, fmt.Errorf("redis not available")
	}

	now := time.Now().Unix()

	ipCount, err := l.count(ctx, client, "quota:upload:ip:"+ip, 60, now)
	if err != nil {
		return 0, 0, err
	}
	ipRemaining := max(l.maxPerMinute-ipCount, 0)

	userRemaining := l.maxPerDay
	if userID != "" {
		userCount, err := l.count(ctx, client, "quota:upload:user:"+userID, 86400, now)
		if err != nil {
			return ipRemaining, 0, err
		}
		userRemaining = max(l.maxPerDay-userCount, 0)
	}

	return ipRemaining, userRemaining, nil
}

func (l *Limiter) count(ctx context.Context, client *goredis.Client, key string, window int, now int64) (int, error) {
	client.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-int64(window)))
	n, err := client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
