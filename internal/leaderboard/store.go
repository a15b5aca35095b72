package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/idgen"
	"times-table-adventure/internal/kv"
)

const (
	// StorageKey is the fixed key the leaderboard is persisted under.
	StorageKey = "multiplication-leaderboard"
	// Limit caps the number of kept entries.
	Limit = 5
)

// Result is a finished session as reported by the game host.
type Result struct {
	Score          int
	CorrectCount   int
	TotalQuestions int
	Duration       time.Duration
	Mode           domain.SessionMode
	CompletedAt    time.Time
}

// Store keeps the best results in memory and mirrors them to a kv.Store.
// Persistence problems are logged and never reach the caller.
type Store struct {
	storage kv.Store
	logger  zerolog.Logger
	newID   func() string

	mu      sync.RWMutex
	entries []domain.LeaderboardEntry
}

// NewStore creates an empty store. A nil storage keeps the board in memory only.
func NewStore(storage kv.Store, logger zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger.With().Str("component", "leaderboard").Logger(),
		newID:   idgen.NewEntryID,
	}
}

// Load replaces the in-memory board with the persisted one. Missing or
// malformed data yields an empty board.
func (s *Store) Load(ctx context.Context) []domain.LeaderboardEntry {
	entries := s.read(ctx)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return clone(entries)
}

func (s *Store) read(ctx context.Context) []domain.LeaderboardEntry {
	if s.storage == nil {
		return nil
	}
	raw, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrNotFound) || (err == nil && len(raw) == 0) {
		return nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load leaderboard")
		return nil
	}
	entries, err := Decode(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("discarding malformed leaderboard")
		return nil
	}
	return entries
}

// Entries returns a snapshot of the board in rank order.
func (s *Store) Entries() []domain.LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.entries)
}

// Record inserts a finished session unless an entry with the same completion
// time already exists, then re-ranks, truncates and persists. The boolean
// reports whether a new entry was added.
func (s *Store) Record(ctx context.Context, r Result) (domain.LeaderboardEntry, bool) {
	createdAt := r.CompletedAt.UnixMilli()

	s.mu.Lock()
	for _, existing := range s.entries {
		if existing.CreatedAt == createdAt {
			s.mu.Unlock()
			return existing, false
		}
	}

	entry := domain.LeaderboardEntry{
		ID:             s.newID(),
		Score:          r.Score,
		CorrectCount:   r.CorrectCount,
		TotalQuestions: r.TotalQuestions,
		DurationMs:     r.Duration.Milliseconds(),
		Mode:           r.Mode,
		CreatedAt:      createdAt,
	}
	updated := rank(append(clone(s.entries), entry))
	s.entries = updated
	snapshot := clone(updated)
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return entry, true
}

func (s *Store) persist(ctx context.Context, entries []domain.LeaderboardEntry) {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode leaderboard")
		return
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		s.logger.Warn().Err(err).Int("entries", len(entries)).Msg("failed to persist leaderboard")
	}
}

// Compare orders entries by score descending, then duration ascending, then
// completion time ascending.
func Compare(a, b domain.LeaderboardEntry) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	if a.DurationMs != b.DurationMs {
		return cmp64(a.DurationMs, b.DurationMs)
	}
	return cmp64(a.CreatedAt, b.CreatedAt)
}

func cmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func rank(entries []domain.LeaderboardEntry) []domain.LeaderboardEntry {
	slices.SortStableFunc(entries, Compare)
	if len(entries) > Limit {
		entries = entries[:Limit]
	}
	return entries
}

func clone(entries []domain.LeaderboardEntry) []domain.LeaderboardEntry {
	if entries == nil {
		return []domain.LeaderboardEntry{}
	}
	return slices.Clone(entries)
}

// Decode parses a persisted board, silently dropping elements that lack a
// required field or carry the wrong JSON type. It errors only when raw is not
// a JSON array.
func Decode(raw []byte) ([]domain.LeaderboardEntry, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(items))
	for _, item := range items {
		if entry, ok := decodeEntry(item); ok {
			entries = append(entries, entry)
		}
	}
	return rank(entries), nil
}

func decodeEntry(raw json.RawMessage) (domain.LeaderboardEntry, bool) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.LeaderboardEntry{}, false
	}

	id, ok1 := fields["id"].(string)
	mode, ok2 := fields["mode"].(string)
	score, ok3 := fields["score"].(float64)
	correct, ok4 := fields["correctCount"].(float64)
	total, ok5 := fields["totalQuestions"].(float64)
	duration, ok6 := fields["durationMs"].(float64)
	createdAt, ok7 := fields["createdAt"].(float64)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7) {
		return domain.LeaderboardEntry{}, false
	}

	return domain.LeaderboardEntry{
		ID:             id,
		Score:          int(score),
		CorrectCount:   int(correct),
		TotalQuestions: int(total),
		DurationMs:     int64(duration),
		Mode:           domain.SessionMode(mode),
		CreatedAt:      int64(createdAt),
	}, true
}
