package redis

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sportaccessories/storefront/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewTokenStore(client)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestTokenStore_Revoke(t *testing.T) {
	store, mr := setupTokenStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-a", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)

	// raw token never stored
	assert.False(t, mr.Exists(revokedKeyPrefix+"token-a"))
	assert.True(t, mr.Exists(revokedKey("token-a")))
}

func TestTokenStore_RevocationExpiresWithToken(t *testing.T) {
	store, mr := setupTokenStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "token-a", time.Now().Add(10*time.Minute)))
	mr.FastForward(11 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStore_RevokeExpiredTokenIsNoop(t *testing.T) {
	store, mr := setupTokenStore(t)

	require.NoError(t, store.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.Empty(t, mr.Keys())
}

func TestTokenStore_ServerDown(t *testing.T) {
	store, mr := setupTokenStore(t)
	mr.Close()

	_, err := store.IsRevoked(context.Background(), "token-a")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	client, err := Connect(context.Background(), &config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	client.Close()

	_, err = Connect(context.Background(), &config.RedisConfig{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
}
