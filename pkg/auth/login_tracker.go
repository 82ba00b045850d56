package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-talent-marketplace/pkg/logger"
	"go-talent-marketplace/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig controls brute-force lockout behavior.
type LoginTrackerConfig struct {
	MaxAttempts   int           // Failed attempts before lockout (default 5)
	AttemptWindow time.Duration // Counting window (default 15min)
	BlockDuration time.Duration // Lockout length (default 15min)
	TrackIP       bool          // Also count and block by client IP
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		TrackIP:       true,
	}
}

// LoginTracker counts failed login attempts in Redis and blocks
// accounts and IPs that exceed the limit.
type LoginTracker struct {
	config LoginTrackerConfig
}

func NewLoginTracker(config LoginTrackerConfig) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config = DefaultLoginTrackerConfig()
	}
	return &LoginTracker{config: config}
}

const (
	failUserPrefix  = "fail:login:user:"
	failIPPrefix    = "fail:login:ip:"
	blockUserPrefix = "blocked:login:user:"
	blockIPPrefix   = "blocked:login:ip:"
)

// INCR with TTL applied only on the first hit, atomic via Lua.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked reports whether the email or IP is currently locked out.
// Without Redis the tracker fails open and never blocks.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	client := redis.Client()
	if client == nil {
		return false, nil
	}

	exists, err := client.Exists(ctx, blockUserPrefix+email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check account block: %w", err)
	}
	if exists > 0 {
		return true, nil
	}

	if lt.config.TrackIP && ip != "" {
		exists, err := client.Exists(ctx, blockIPPrefix+ip).Result()
		if err != nil {
			return false, fmt.Errorf("failed to check IP block: %w", err)
		}
		if exists > 0 {
			return true, nil
		}
	}

	return false, nil
}

// RecordFailure counts a failed attempt and creates a block once the
// limit is reached. Returns (blocked, attemptsSoFar, error).
func (lt *LoginTracker) RecordFailure(ctx context.Context, email, ip string) (bool, int, error) {
	client := redis.Client()
	if client == nil {
		return false, 0, errors.New("redis not available for login tracking")
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())

	count, err := lt.increment(ctx, client, failUserPrefix+email, ttlSeconds)
	if err != nil {
		return false, 0, fmt.Errorf("failed to count login attempt: %w", err)
	}

	if lt.config.TrackIP && ip != "" {
		_, _ = lt.increment(ctx, client, failIPPrefix+ip, ttlSeconds) // best effort
	}

	logger.Log.Warn("login attempt failed",
		"email", email,
		"ip", ip,
		"attempts", count,
	)

	if count >= lt.config.MaxAttempts {
		if err := lt.block(ctx, client, email, ip); err != nil {
			return true, count, err
		}
		return true, count, nil
	}

	return false, count, nil
}

func (lt *LoginTracker) increment(ctx context.Context, client *goredis.Client, key string, ttlSeconds int) (int, error) {
	result, err := client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from login counter script")
	}
	return int(count), nil
}

func (lt *LoginTracker) block(ctx context.Context, client *goredis.Client, email, ip string) error {
	ttl := lt.config.BlockDuration

	if err := client.Set(ctx, blockUserPrefix+email, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to block account: %w", err)
	}

	if lt.config.TrackIP && ip != "" {
		if err := client.Set(ctx, blockIPPrefix+ip, "1", ttl).Err(); err != nil {
			// Account is already blocked, the IP block is secondary
			logger.Log.Warn("failed to block IP after repeated login failures", "ip", ip, "error", err)
		}
	}

	logger.Log.Warn("login blocked after repeated failures",
		"email", email,
		"ip", ip,
		"block_minutes", int(ttl.Minutes()),
	)
	return nil
}

// ClearAttempts resets the failure counters after a successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	client := redis.Client()
	if client == nil {
		return nil
	}

	if err := client.Del(ctx, failUserPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	if lt.config.TrackIP && ip != "" {
		_ = client.Del(ctx, failIPPrefix+ip).Err()
	}
	return nil
}

// BlockTTL returns how long the account lockout still lasts.
func (lt *LoginTracker) BlockTTL(ctx context.Context, email string) (time.Duration, bool, error) {
	client := redis.Client()
	if client == nil {
		return 0, false, nil
	}

	ttl, err := client.TTL(ctx, blockUserPrefix+email).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read block TTL: %w", err)
	}
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}
