package tokenvault

import (
	"context"
	"testing"

	"github.com/nptech/account-gateway/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryVaultRoundTrip(t *testing.T) {
	vault := NewMemoryVault()
	ctx := context.Background()

	_, err := vault.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoTokens)

	ts := ports.TokenSet{
		AccessToken:  "at",
		IDToken:      "it",
		RefreshToken: "rt",
		UserJSON:     []byte(`{"id":"u1"}`),
		RememberMe:   false,
	}
	require.NoError(t, vault.Save(ctx, ts))

	got, err := vault.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ts, got)

	require.NoError(t, vault.Clear(ctx))
	_, err = vault.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNoTokens)
}

func TestMemoryVaultCopiesUserJSON(t *testing.T) {
	vault := NewMemoryVault()
	ctx := context.Background()

	buf := []byte(`{"id":"u1"}`)
	require.NoError(t, vault.Save(ctx, ports.TokenSet{AccessToken: "at", UserJSON: buf}))
	buf[0] = 'X'

	got, err := vault.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"u1"}`), got.UserJSON)
}

func TestMemoryVaultAttemptedURL(t *testing.T) {
	vault := NewMemoryVault()
	ctx := context.Background()

	url, err := vault.TakeAttemptedURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, url)

	require.NoError(t, vault.SaveAttemptedURL(ctx, "/reports/42"))

	url, err = vault.TakeAttemptedURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/reports/42", url)

	// Taking clears it.
	url, err = vault.TakeAttemptedURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, url)
}
