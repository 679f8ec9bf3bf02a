package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TokenBlacklist records revoked token IDs so logged-out access tokens
// stop working before their natural expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const blacklistKeyPrefix = "auth:blacklist:"

// RedisTokenBlacklist implements TokenBlacklist on Redis. Entries expire
// together with the token they revoke, so the set never needs cleanup.
type RedisTokenBlacklist struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenBlacklist creates a Redis-backed token blacklist
func NewRedisTokenBlacklist(client *redis.Client, logger *zap.Logger) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client, logger: logger}
}

// Revoke marks a token ID as revoked for the given TTL
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return fmt.Errorf("cannot revoke token without jti")
	}
	if ttl <= 0 {
		// Already expired, nothing to revoke
		return nil
	}
	if err := b.client.Set(ctx, blacklistKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	b.logger.Debug("token revoked", zap.String("jti", jti), zap.Duration("ttl", ttl))
	return nil
}

// IsRevoked reports whether a token ID has been revoked
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

// NoOpTokenBlacklist never revokes anything. Used when Redis is not
// configured, e.g. in local development.
type NoOpTokenBlacklist struct{}

// Revoke implements TokenBlacklist
func (NoOpTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return nil
}

// IsRevoked implements TokenBlacklist
func (NoOpTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return false, nil
}
