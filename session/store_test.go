package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, "shopsession:state", 0), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	if err := store.Save(ctx, []byte(`{"version":2,"state":{}}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != `{"version":2,"state":{}}` {
		t.Fatalf("unexpected data: %s", data)
	}
}

func TestRedisStoreLoadMissing(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	data, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil for missing key, got %q", data)
	}
}

func TestRedisStoreClear(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty store failed: %v", err)
	}

	if err := store.Save(ctx, []byte("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	data, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil after clear, got %q", data)
	}
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client, "shopsession:state", time.Hour)
	if err := store.Save(ctx, []byte("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if ttl := mr.TTL("shopsession:state"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", ttl)
	}
}
