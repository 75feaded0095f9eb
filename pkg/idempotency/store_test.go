package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Minute)
}

func TestSeen_FirstClaimWins(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	key := s.Key("cust-1", "abc123")

	seen, err := s.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = s.Seen(ctx, key)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestKey_ScopedPerCustomer(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	seen, err := s.Seen(ctx, s.Key("cust-1", "abc123"))
	require.NoError(t, err)
	assert.False(t, seen)

	// Same header value from a different customer is a different key.
	seen, err = s.Seen(ctx, s.Key("cust-2", "abc123"))
	require.NoError(t, err)
	assert.False(t, seen)
}
