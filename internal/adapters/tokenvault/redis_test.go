package tokenvault

import (
	"context"
	"testing"
	"time"

	"github.com/nptech/account-gateway/internal/ports"
	"github.com/nptech/account-gateway/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisVaultRoundTrip(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	vault := NewRedisVault(RedisOptions{Client: client, Prefix: "test_authgw"})
	ctx := context.Background()

	_, err := vault.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoTokens)

	ts := ports.TokenSet{
		AccessToken:  "at",
		IDToken:      "it",
		RefreshToken: "rt",
		UserJSON:     []byte(`{"id":"u1"}`),
		RememberMe:   true,
	}
	require.NoError(t, vault.Save(ctx, ts))

	got, err := vault.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ts, got)

	require.NoError(t, vault.Clear(ctx))
	_, err = vault.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoTokens)
}

func TestRedisVaultTTL(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	vault := NewRedisVault(RedisOptions{Client: client, Prefix: "test_authgw", TTL: time.Hour})
	ctx := context.Background()

	require.NoError(t, vault.Save(ctx, ports.TokenSet{AccessToken: "at"}))

	ttl, err := client.TTL(ctx, "test_authgw:access_token").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Minute)
}

func TestRedisVaultAttemptedURL(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	vault := NewRedisVault(RedisOptions{Client: client, Prefix: "test_authgw"})
	ctx := context.Background()

	url, err := vault.TakeAttemptedURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, url)

	require.NoError(t, vault.SaveAttemptedURL(ctx, "/settings"))

	url, err = vault.TakeAttemptedURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/settings", url)

	url, err = vault.TakeAttemptedURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, url)
}
