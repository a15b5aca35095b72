// Package settings persists the renderer's sound and music toggles.
package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"times-table-adventure/internal/kv"
)

const (
	SoundKey = "multiplication-sound-enabled"
	MusicKey = "multiplication-music-enabled"
)

// Preferences are on unless the player turned them off.
type Preferences struct {
	SoundEnabled bool `json:"soundEnabled"`
	MusicEnabled bool `json:"musicEnabled"`
}

// Store reads and writes Preferences through a kv.Store. A nil storage
// always reports the defaults.
type Store struct {
	storage kv.Store
	logger  zerolog.Logger
}

func NewStore(storage kv.Store, logger zerolog.Logger) *Store {
	return &Store{storage: storage, logger: logger.With().Str("component", "settings").Logger()}
}

// Load never fails; unreadable toggles default to enabled.
func (s *Store) Load(ctx context.Context) Preferences {
	return Preferences{
		SoundEnabled: s.flag(ctx, SoundKey),
		MusicEnabled: s.flag(ctx, MusicKey),
	}
}

// Save writes both toggles and returns the first write error.
func (s *Store) Save(ctx context.Context, prefs Preferences) error {
	if err := s.write(ctx, SoundKey, prefs.SoundEnabled); err != nil {
		return err
	}
	return s.write(ctx, MusicKey, prefs.MusicEnabled)
}

func (s *Store) flag(ctx context.Context, key string) bool {
	if s.storage == nil {
		return true
	}
	raw, err := s.storage.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return true
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to load setting")
		return true
	}
	var enabled bool
	if err := json.Unmarshal(raw, &enabled); err != nil {
		return true
	}
	return enabled
}

func (s *Store) write(ctx context.Context, key string, enabled bool) error {
	if s.storage == nil {
		return nil
	}
	data, _ := json.Marshal(enabled)
	if err := s.storage.Set(ctx, key, data); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to save setting")
		return err
	}
	return nil
}
