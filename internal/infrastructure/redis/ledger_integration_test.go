package redisinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/YogeshxSaini/bluestock/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// startLedger runs a throwaway Redis and returns a Ledger on it. Skipped under -short.
func startLedger(t *testing.T) *Ledger {
	t.Helper()
	if testing.Short() {
		t.Skip("container-backed test skipped in -short mode")
	}
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := NewClient(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewLedger(client)
}

func TestIntegration_Ledger(t *testing.T) {
	l := startLedger(t)
	ctx := context.Background()
	require.NoError(t, l.Ping(ctx))

	t.Run("put overwrites the previous entry", func(t *testing.T) {
		exp := time.Now().Add(10 * time.Minute).Unix()
		require.NoError(t, l.Put(ctx, &domain.Verification{AccountID: "acc-1", Purpose: "mobile", Code: "111111", ExpiresAt: exp}))
		require.NoError(t, l.Put(ctx, &domain.Verification{AccountID: "acc-1", Purpose: "mobile", Code: "222222", ExpiresAt: exp + 60}))

		got, err := l.Get(ctx, "acc-1", "mobile")
		require.NoError(t, err)
		assert.Equal(t, "222222", got.Code)
		assert.Equal(t, exp+60, got.ExpiresAt)
	})

	t.Run("purposes are keyed separately", func(t *testing.T) {
		_, err := l.Get(ctx, "acc-1", "email")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("expired entry stays readable within retention", func(t *testing.T) {
		past := time.Now().Add(-30 * time.Second).Unix()
		require.NoError(t, l.Put(ctx, &domain.Verification{AccountID: "acc-2", Purpose: "mobile", Code: "333333", ExpiresAt: past}))

		got, err := l.Get(ctx, "acc-2", "mobile")
		require.NoError(t, err)
		assert.Equal(t, "333333", got.Code)
		assert.True(t, got.Expired(time.Now()))

		ttl, err := l.client.TTL(ctx, key("acc-2", "mobile")).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, retention)
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		require.NoError(t, l.Delete(ctx, "acc-1", "mobile"))
		_, err := l.Get(ctx, "acc-1", "mobile")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
