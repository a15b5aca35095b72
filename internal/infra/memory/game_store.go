package memory

import (
	"sync"

	"times-table-adventure/internal/game"
)

// GameStore is an in-memory implementation of app.GameRepository.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]*game.Game),
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
	return g
}

// Subscribe attaches a renderer to the stored game while holding the read
// lock, so DeleteIfIdle cannot drop the game in between.
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

// DeleteIfIdle removes the player's game when no renderer is attached and
// reports whether it did.
func (s *GameStore) DeleteIfIdle(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[playerID]
	if !ok || g.HasSubscribers() {
		return false
	}
	delete(s.games, playerID)
	return true
}
