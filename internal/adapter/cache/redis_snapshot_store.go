package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adarsh180/accidentaware/internal/cart"
)

// RedisSnapshotStore persists cart snapshots server-side, keyed by user.
// TTL zero keeps carts until overwritten.
type RedisSnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSnapshotStore(rdb *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSnapshotStore) Save(ctx context.Context, key string, blob []byte) error {
	return s.rdb.Set(ctx, "cart:"+key, blob, s.ttl).Err()
}

func (s *RedisSnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, "cart:"+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

var _ cart.SnapshotStore = (*RedisSnapshotStore)(nil)
