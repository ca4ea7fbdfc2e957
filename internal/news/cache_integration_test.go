//go:build integration

package news_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorhub/internal/news"
	platformredis "vendorhub/internal/platform/redis"
	"vendorhub/pkg/platform/sentinel"
	"vendorhub/pkg/testutil/containers"
)

func TestRedisCache_Integration(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	client, err := platformredis.New(rc.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := news.NewRedisCache(client)
	require.NotNil(t, cache)

	key := news.Query{Category: "business", Page: 1, PageSize: 10}.CacheKey()

	t.Run("miss before set", func(t *testing.T) {
		_, err := cache.Get(ctx, key)
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))
	})

	t.Run("roundtrip", func(t *testing.T) {
		body := []byte(`{"articles":[],"totalResults":0}`)
		require.NoError(t, cache.Set(ctx, key, body, time.Minute))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, body, got)
	})

	t.Run("expiry", func(t *testing.T) {
		shortKey := news.Query{Category: "tech", Page: 1, PageSize: 10}.CacheKey()
		require.NoError(t, cache.Set(ctx, shortKey, []byte("{}"), 50*time.Millisecond))

		require.Eventually(t, func() bool {
			_, err := cache.Get(ctx, shortKey)
			return errors.Is(err, sentinel.ErrNotFound)
		}, 2*time.Second, 25*time.Millisecond)
	})

	t.Run("nil client disables the cache", func(t *testing.T) {
		assert.Nil(t, news.NewRedisCache(nil))
	})
}
