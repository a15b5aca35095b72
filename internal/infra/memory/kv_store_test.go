package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"times-table-adventure/internal/game"
	"times-table-adventure/internal/kv"
)

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	value := []byte(`[1,2]`)
	if err := store.Set(ctx, "k", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'x'

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[1,2]` {
		t.Fatalf("expected stored copy, got %q", got)
	}
}

func TestCachedStoreCaches(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{Store: NewKVStore()}
	_ = backing.Store.Set(ctx, "k", []byte("v1"))

	now := time.Unix(0, 0)
	cache := NewCachedStore(backing, time.Minute)
	cache.clock = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		got, err := cache.Get(ctx, "k")
		if err != nil || string(got) != "v1" {
			t.Fatalf("get %d: %q %v", i, got, err)
		}
	}
	if backing.gets != 1 {
		t.Fatalf("expected one backing read, got %d", backing.gets)
	}

	if _, err := cache.Get(ctx, "absent"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := cache.Get(ctx, "absent"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected cached miss, got %v", err)
	}
	if backing.gets != 2 {
		t.Fatalf("expected misses cached, backing reads %d", backing.gets)
	}

	if err := cache.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ := cache.Get(ctx, "k")
	if string(got) != "v2" {
		t.Fatalf("expected write-through value, got %q", got)
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.Get(ctx, "k"); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if backing.gets != 3 {
		t.Fatalf("expected reload after expiry, backing reads %d", backing.gets)
	}
}

func TestGameStoreLifecycle(t *testing.T) {
	store := NewGameStore()

	first := game.New(game.Options{PlayerID: "p1"})
	if got := store.PutIfAbsent(first); got != first {
		t.Fatalf("expected first game stored")
	}
	if got := store.PutIfAbsent(game.New(game.Options{PlayerID: "p1"})); got != first {
		t.Fatalf("expected existing game returned")
	}
	if _, ok := store.Get("p1"); !ok {
		t.Fatalf("expected game present")
	}

	_, cancel, ok := store.Subscribe("p1")
	if !ok {
		t.Fatalf("expected subscribe to stored game")
	}
	if store.DeleteIfIdle("p1") {
		t.Fatalf("expected watched game kept")
	}
	cancel()
	if !store.DeleteIfIdle("p1") {
		t.Fatalf("expected idle game removed")
	}
	if _, ok := store.Get("p1"); ok {
		t.Fatalf("expected game removed")
	}
}

type countingStore struct {
	kv.Store
	gets int
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.gets++
	return s.Store.Get(ctx, key)
}
