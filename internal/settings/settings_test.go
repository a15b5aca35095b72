package settings

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"times-table-adventure/internal/kv"
)

type mapStore map[string][]byte

func (m mapStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (m mapStore) Set(_ context.Context, key string, value []byte) error {
	m[key] = value
	return nil
}

func TestDefaultsToEnabled(t *testing.T) {
	store := NewStore(mapStore{}, zerolog.Nop())
	prefs := store.Load(context.Background())
	if !prefs.SoundEnabled || !prefs.MusicEnabled {
		t.Fatalf("expected defaults enabled, got %+v", prefs)
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	backing := mapStore{}
	store := NewStore(kv.Prefixed(backing, kv.PlayerPrefix("p1")), zerolog.Nop())

	if err := store.Save(ctx, Preferences{SoundEnabled: false, MusicEnabled: true}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if string(backing["player:p1:"+SoundKey]) != "false" {
		t.Fatalf("expected namespaced sound key, got %v", backing)
	}

	prefs := store.Load(ctx)
	if prefs.SoundEnabled || !prefs.MusicEnabled {
		t.Fatalf("unexpected prefs %+v", prefs)
	}
}

func TestMalformedValueDefaultsToEnabled(t *testing.T) {
	store := NewStore(mapStore{SoundKey: []byte("maybe")}, zerolog.Nop())
	if !store.Load(context.Background()).SoundEnabled {
		t.Fatalf("expected malformed value to default to enabled")
	}
}
