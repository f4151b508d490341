package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable is returned when the durable storage backend cannot be
// reached.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Store is durable storage for exactly one encoded snapshot. Writes are
// last-write-wins with no merge semantics; reads happen only at hydration.
type Store interface {
	// Load returns the stored snapshot bytes, or nil when nothing is stored.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, data []byte) error
	// Clear removes the stored snapshot. Clearing an empty store is not an
	// error.
	Clear(ctx context.Context) error
}

// RedisStore keeps the snapshot under a single redis key. It backs
// server-rendered storefront deployments where the session survives process
// restarts in redis rather than on local disk.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore writing to the given key. A ttl of zero
// stores the snapshot without expiry.
func NewRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
