package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Without a Redis connection every cache call must degrade to a no-op
// instead of blocking or panicking.
func TestDegradesWithoutRedis(t *testing.T) {
	ctx := context.Background()

	require.False(t, IsHealthy())

	_, ok := GetCached(ctx, CustomerStatsKey)
	require.False(t, ok)
	SetCached(ctx, CustomerStatsKey, []byte(`{}`), time.Minute)
	InvalidateCustomerCaches(ctx)

	_, ok = GetCachedAuth(ctx, "ramu", "secret")
	require.False(t, ok)
	CacheAuth(ctx, "ramu", "secret", 1)
	InvalidateAuth(ctx, "ramu", "secret")
}

// PreWarmKey must not invoke the fetcher when there is nothing to warm.
func TestPreWarmKeyWithoutRedis(t *testing.T) {
	fetched := make(chan struct{}, 1)
	PreWarmKey(CustomerStatsKey, func(ctx context.Context) ([]byte, error) {
		fetched <- struct{}{}
		return []byte(`{}`), nil
	}, time.Minute)

	select {
	case <-fetched:
		t.Fatal("fetcher ran without a cache to warm")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHashCredentialsIsStableAndOpaque(t *testing.T) {
	a := hashCredentials("ramu", "secret")
	b := hashCredentials("ramu", "secret")
	c := hashCredentials("ramu", "other")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.NotContains(t, a, "secret")
	require.Regexp(t, `^auth:[0-9a-f]{32}$`, a)
}
