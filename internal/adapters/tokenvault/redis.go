// Package tokenvault provides the two token storage scopes: a
// Redis-backed vault that survives restarts and an in-memory vault
// that lives and dies with the process. The rememberMe choice at
// sign-in selects between them.
package tokenvault

import (
	"context"
	"fmt"
	"time"

	"github.com/nptech/account-gateway/internal/ports"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "authgw"

// RedisOptions configures a RedisVault.
type RedisOptions struct {
	Client *redis.Client
	// Prefix namespaces the vault's keys; defaults to "authgw".
	Prefix string
	// TTL bounds how long stored tokens live. Zero means no expiry.
	TTL time.Duration
}

// RedisVault is the persistent token scope.
type RedisVault struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ ports.TokenVault = (*RedisVault)(nil)

// NewRedisVault creates a Redis-backed vault.
func NewRedisVault(opts RedisOptions) *RedisVault {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisVault{client: opts.Client, prefix: prefix, ttl: opts.TTL}
}

func (v *RedisVault) key(name string) string {
	return v.prefix + ":" + name
}

// Save stores the token set in one transaction so readers never see a
// partially written session.
func (v *RedisVault) Save(ctx context.Context, ts ports.TokenSet) error {
	remember := "false"
	if ts.RememberMe {
		remember = "true"
	}
	pipe := v.client.TxPipeline()
	pipe.Set(ctx, v.key("access_token"), ts.AccessToken, v.ttl)
	pipe.Set(ctx, v.key("id_token"), ts.IDToken, v.ttl)
	pipe.Set(ctx, v.key("refresh_token"), ts.RefreshToken, v.ttl)
	pipe.Set(ctx, v.key("user"), string(ts.UserJSON), v.ttl)
	pipe.Set(ctx, v.key("remember_me"), remember, v.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("tokenvault: save: %w", err)
	}
	return nil
}

// Load returns the stored token set, or ports.ErrNoTokens when the
// vault holds no session.
func (v *RedisVault) Load(ctx context.Context) (ports.TokenSet, error) {
	vals, err := v.client.MGet(ctx,
		v.key("access_token"),
		v.key("id_token"),
		v.key("refresh_token"),
		v.key("user"),
		v.key("remember_me"),
	).Result()
	if err != nil {
		return ports.TokenSet{}, fmt.Errorf("tokenvault: load: %w", err)
	}

	str := func(i int) string {
		if s, ok := vals[i].(string); ok {
			return s
		}
		return ""
	}
	ts := ports.TokenSet{
		AccessToken:  str(0),
		IDToken:      str(1),
		RefreshToken: str(2),
		UserJSON:     []byte(str(3)),
		RememberMe:   str(4) == "true",
	}
	if ts.AccessToken == "" {
		return ports.TokenSet{}, ports.ErrNoTokens
	}
	return ts, nil
}

// Clear removes all stored session keys.
func (v *RedisVault) Clear(ctx context.Context) error {
	err := v.client.Del(ctx,
		v.key("access_token"),
		v.key("id_token"),
		v.key("refresh_token"),
		v.key("user"),
		v.key("remember_me"),
	).Err()
	if err != nil {
		return fmt.Errorf("tokenvault: clear: %w", err)
	}
	return nil
}

// SaveAttemptedURL records the URL a guard blocked.
func (v *RedisVault) SaveAttemptedURL(ctx context.Context, url string) error {
	if err := v.client.Set(ctx, v.key("redirect_url"), url, v.ttl).Err(); err != nil {
		return fmt.Errorf("tokenvault: save attempted url: %w", err)
	}
	return nil
}

// TakeAttemptedURL returns and clears the recorded URL. Empty string
// means none was stored.
func (v *RedisVault) TakeAttemptedURL(ctx context.Context) (string, error) {
	url, err := v.client.GetDel(ctx, v.key("redirect_url")).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenvault: take attempted url: %w", err)
	}
	return url, nil
}
