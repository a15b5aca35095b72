package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"times-table-adventure/internal/game"
	"times-table-adventure/internal/kv"
	"times-table-adventure/internal/leaderboard"
)

func TestKVStoreRoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewKVStore(client, 0)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("get: %q %v", got, err)
	}
	if !mr.Exists("tta:k") {
		t.Fatalf("expected prefixed redis key")
	}
}

func TestKVStoreTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewKVStore(client, time.Minute)

	if err := store.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("tta:k"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(context.Background(), "k"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestLeaderboardPersistsThroughRedis(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	storage := kv.Prefixed(NewKVStore(client, 0), kv.PlayerPrefix("p1"))

	board := leaderboard.NewStore(storage, zerolog.Nop())
	board.Record(ctx, leaderboard.Result{Score: 900, CorrectCount: 9, TotalQuestions: 9, Duration: 30 * time.Second, CompletedAt: time.UnixMilli(1000)})

	if !mr.Exists("tta:player:p1:" + leaderboard.StorageKey) {
		t.Fatalf("expected leaderboard key in redis, keys=%v", mr.Keys())
	}

	reloaded := leaderboard.NewStore(storage, zerolog.Nop()).Load(ctx)
	if len(reloaded) != 1 || reloaded[0].Score != 900 {
		t.Fatalf("unexpected reloaded board %+v", reloaded)
	}
}

func TestGameStoreSetsAndClearsKeys(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewGameStore(client, time.Minute)

	g := store.PutIfAbsent(game.New(game.Options{PlayerID: "p1"}))
	if !mr.Exists("game:player:p1") {
		t.Fatalf("expected redis key to be set")
	}
	if got := store.PutIfAbsent(game.New(game.Options{PlayerID: "p1"})); got != g {
		t.Fatalf("expected existing game returned")
	}
	live, err := store.Live(context.Background(), "p1")
	if err != nil || !live {
		t.Fatalf("expected live player, got %v %v", live, err)
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
	if mr.Exists("game:player:p1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("p1"); ok {
		t.Fatalf("expected game removed")
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}
