package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"times-table-adventure/internal/game"
)

// GameStore is a Redis-aware implementation of app.GameRepository.
// Games and their subscribers stay in process; Redis only carries a liveness
// marker per player so other instances can see who is playing.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*game.Game
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*game.Game),
	}
}

func (s *GameStore) Get(playerID string) (*game.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[playerID]
	return g, ok
}

func (s *GameStore) PutIfAbsent(g *game.Game) *game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.games[g.PlayerID()]; ok {
		return existing
	}
	s.games[g.PlayerID()] = g
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(g.PlayerID()), "1", s.ttl).Err()
	return g
}

func (s *GameStore) Subscribe(playerID string) (<-chan game.View, func(), bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[playerID]
	if !ok {
		return nil, nil, false
	}
	ch, cancel := g.Subscribe()
	return ch, cancel, true
}

// DeleteIfIdle drops the game and its liveness marker unless a renderer is
// still attached.
func (s *GameStore) DeleteIfIdle(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[playerID]
	if !ok || g.HasSubscribers() {
		return false
	}
	delete(s.games, playerID)
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
	return true
}

// Live reports whether any instance holds a game for the player.
func (s *GameStore) Live(ctx context.Context, playerID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(playerID)).Result()
	return n > 0, err
}

func (s *GameStore) key(playerID string) string {
	return "game:player:" + playerID
}
