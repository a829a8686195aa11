package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sportaccessories/storefront/config"
	"github.com/sportaccessories/storefront/pkg/logger"
)

const revokedKeyPrefix = "revoked:"

// Connect opens a client and verifies it with PING
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return client, nil
}

// TokenStore remembers logged-out bearer tokens until they would have expired anyway.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// tokens are stored hashed so the store never holds usable credentials
func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}

// Revoke marks token as unusable until expiresAt
func (s *TokenStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		logger.Debug("Token already expired, nothing to revoke")
		return nil
	}

	if err := s.client.Set(ctx, revokedKey(token), "1", ttl).Err(); err != nil {
		logger.Error("Failed to revoke token", err)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logger.Debug("Token revoked", map[string]interface{}{
		"ttl": ttl.String(),
	})
	return nil
}

// IsRevoked reports whether token was revoked
func (s *TokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		logger.Error("Failed to check token revocation", err)
		return false, err
	}
	return n > 0, nil
}

func (s *TokenStore) Close() error {
	logger.Info("Closing Redis connection")
	return s.client.Close()
}
