package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-talent-marketplace/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

// Redis key patterns. One active refresh token per user: issuing a new one
// revokes the previous.
const (
	refreshTokenPrefix = "refresh:token:"
	refreshUserPrefix  = "refresh:user:"
)

// ErrRefreshTokenInvalid is returned for unknown, expired or revoked tokens.
var ErrRefreshTokenInvalid = errors.New("refresh token is invalid or expired")

// RefreshStore keeps opaque refresh tokens in Redis with a TTL. When Redis
// is not configured it falls back to an in-memory store, which is fine for
// local development but loses sessions on restart.
type RefreshStore struct {
	ttl time.Duration

	mu     sync.Mutex
	memory map[string]memoryEntry // token -> entry (fallback only)
}

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

func NewRefreshStore(ttl time.Duration) *RefreshStore {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RefreshStore{
		ttl:    ttl,
		memory: make(map[string]memoryEntry),
	}
}

// Issue creates and stores a new opaque refresh token for the user,
// revoking any previously issued one.
func (s *RefreshStore) Issue(ctx context.Context, userID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	token := hex.EncodeToString(raw)

	client := redis.Client()
	if client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Drop any previous token for this user
		for tok, entry := range s.memory {
			if entry.userID == userID {
				delete(s.memory, tok)
			}
		}
		s.memory[token] = memoryEntry{userID: userID, expiresAt: time.Now().Add(s.ttl)}
		return token, nil
	}

	// Revoke the previous token before storing the new one
	userKey := refreshUserPrefix + userID
	if prev, err := client.Get(ctx, userKey).Result(); err == nil && prev != "" {
		_ = client.Del(ctx, refreshTokenPrefix+prev).Err()
	}

	pipe := client.TxPipeline()
	pipe.Set(ctx, refreshTokenPrefix+token, userID, s.ttl)
	pipe.Set(ctx, userKey, token, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return token, nil
}

// Resolve returns the user the token belongs to.
func (s *RefreshStore) Resolve(ctx context.Context, token string) (string, error) {
	client := redis.Client()
	if client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		entry, ok := s.memory[token]
		if !ok || time.Now().After(entry.expiresAt) {
			delete(s.memory, token)
			return "", ErrRefreshTokenInvalid
		}
		return entry.userID, nil
	}

	userID, err := client.Get(ctx, refreshTokenPrefix+token).Result()
	if err == goredis.Nil {
		return "", ErrRefreshTokenInvalid
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve refresh token: %w", err)
	}
	return userID, nil
}

// Revoke invalidates the user's active refresh token, if any.
func (s *RefreshStore) Revoke(ctx context.Context, userID string) error {
	client := redis.Client()
	if client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		for tok, entry := range s.memory {
			if entry.userID == userID {
				delete(s.memory, tok)
			}
		}
		return nil
	}

	userKey := refreshUserPrefix + userID
	token, err := client.Get(ctx, userKey).Result()
	if err == goredis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up refresh token: %w", err)
	}

	pipe := client.TxPipeline()
	pipe.Del(ctx, refreshTokenPrefix+token)
	pipe.Del(ctx, userKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
