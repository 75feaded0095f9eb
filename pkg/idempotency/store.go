package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store deduplicates retried requests through Redis SET NX. The first caller
// of a key claims it; everyone after sees it as already seen until the TTL
// expires.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Key scopes an Idempotency-Key header to the calling customer so two
// customers reusing the same key value don't collide.
func (s *Store) Key(customerID, idempotencyKey string) string {
	return fmt.Sprintf("idem:%s:%s", customerID, idempotencyKey)
}

func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
