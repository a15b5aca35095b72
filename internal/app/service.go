package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/game"
	"times-table-adventure/internal/kv"
	"times-table-adventure/internal/leaderboard"
	"times-table-adventure/internal/metrics"
	"times-table-adventure/internal/mission"
	"times-table-adventure/internal/progress"
	"times-table-adventure/internal/scoring"
	"times-table-adventure/internal/settings"
)

// GameRepository abstracts where live games are held (in-memory, Redis-marked, etc).
type GameRepository interface {
	Get(playerID string) (*game.Game, bool)
	// PutIfAbsent stores g unless a game for the same player exists, and
	// returns whichever game ends up stored.
	PutIfAbsent(g *game.Game) *game.Game
	// Subscribe attaches to the stored game atomically with respect to
	// DeleteIfIdle.
	Subscribe(playerID string) (<-chan game.View, func(), bool)
	// DeleteIfIdle removes the game only if no renderer is subscribed,
	// checked under the repository lock.
	DeleteIfIdle(playerID string) bool
}

// Options wires a Service. Nil fields get production defaults.
type Options struct {
	Games    GameRepository
	Storage  kv.Store
	Logger   zerolog.Logger
	Metrics  *metrics.Recorder
	Missions *mission.Factory
	Scores   *scoring.Engine
	Rewarder *progress.Rewarder
	Now      func() time.Time
}

// Service contains the player-facing use cases. Each player owns one game
// whose leaderboard and settings live under the player's key prefix.
type Service struct {
	games    GameRepository
	storage  kv.Store
	base     zerolog.Logger
	logger   zerolog.Logger
	metrics  *metrics.Recorder
	missions *mission.Factory
	scores   *scoring.Engine
	rewarder *progress.Rewarder
	now      func() time.Time

	loads singleflight.Group
}

func NewService(opts Options) *Service {
	s := &Service{
		games:    opts.Games,
		storage:  opts.Storage,
		base:     opts.Logger,
		logger:   opts.Logger.With().Str("component", "app").Logger(),
		metrics:  opts.Metrics,
		missions: opts.Missions,
		scores:   opts.Scores,
		rewarder: opts.Rewarder,
		now:      opts.Now,
	}
	if s.missions == nil {
		s.missions = mission.NewFactory()
	}
	if s.scores == nil {
		s.scores = scoring.NewEngine(scoring.DefaultConfig())
	}
	if s.rewarder == nil {
		s.rewarder = progress.NewRewarder()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Open returns the player's game, loading its leaderboard on first use.
// Concurrent opens for the same player share one load.
func (s *Service) Open(ctx context.Context, playerID string) (*game.Game, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, domain.ErrInvalidPlayer
	}
	if g, ok := s.games.Get(playerID); ok {
		return g, nil
	}

	v, _, _ := s.loads.Do(playerID, func() (interface{}, error) {
		if g, ok := s.games.Get(playerID); ok {
			return g, nil
		}
		board := leaderboard.NewStore(s.playerStorage(playerID), s.base)
		// the load is shared, so one caller going away must not cut it short
		entries := board.Load(context.WithoutCancel(ctx))
		created := game.New(game.Options{
			PlayerID: playerID,
			Missions: s.missions,
			Scores:   s.scores,
			Rewarder: s.rewarder,
			Board:    board,
			Now:      s.now,
		})
		g := s.games.PutIfAbsent(created)
		if g == created {
			s.metrics.GameOpened()
			s.logger.Debug().Str("player", playerID).Int("entries", len(entries)).Msg("game opened")
		}
		return g, nil
	})
	return v.(*game.Game), nil
}

// Dispatch applies an action to an open game.
func (s *Service) Dispatch(ctx context.Context, playerID string, action game.Action) (game.Outcome, error) {
	g, ok := s.games.Get(playerID)
	if !ok {
		return game.Outcome{}, domain.ErrGameNotFound
	}
	out := g.Dispatch(ctx, action)
	s.record(g, action, out)
	return out, nil
}

func (s *Service) record(g *game.Game, action game.Action, out game.Outcome) {
	if _, ok := action.(game.StartSession); ok {
		st := g.State()
		s.metrics.SessionStarted(string(st.Mode), string(st.Pattern))
	}
	if out.Answered {
		s.metrics.Answer(out.Correct)
	}
	for _, reward := range out.Rewards {
		s.metrics.Reward(string(reward.Rarity))
	}
	if out.Finished {
		s.metrics.SessionFinished(string(g.State().Mode), out.Perfect)
	}
}

// Subscribe returns a channel that receives views of the player's game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Service) Subscribe(_ context.Context, playerID string) (<-chan game.View, func(), error) {
	ch, cancel, ok := s.games.Subscribe(playerID)
	if !ok {
		return nil, nil, domain.ErrGameNotFound
	}
	return ch, cancel, nil
}

// Leave drops the player's game once no renderer is attached to it.
func (s *Service) Leave(_ context.Context, playerID string) {
	if s.games.DeleteIfIdle(playerID) {
		s.metrics.GameClosed()
	}
}

// Leaderboard returns the player's board, from the live game when one is
// open and from storage otherwise.
func (s *Service) Leaderboard(ctx context.Context, playerID string) ([]domain.LeaderboardEntry, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, domain.ErrInvalidPlayer
	}
	if g, ok := s.games.Get(playerID); ok {
		return g.Leaderboard(), nil
	}
	return leaderboard.NewStore(s.playerStorage(playerID), s.base).Load(ctx), nil
}

// Settings returns the player's sound and music toggles.
func (s *Service) Settings(ctx context.Context, playerID string) (settings.Preferences, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return settings.Preferences{}, domain.ErrInvalidPlayer
	}
	return settings.NewStore(s.playerStorage(playerID), s.base).Load(ctx), nil
}

func (s *Service) UpdateSettings(ctx context.Context, playerID string, prefs settings.Preferences) error {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return domain.ErrInvalidPlayer
	}
	return settings.NewStore(s.playerStorage(playerID), s.base).Save(ctx, prefs)
}

func (s *Service) playerStorage(playerID string) kv.Store {
	if s.storage == nil {
		return nil
	}
	return kv.Prefixed(s.storage, kv.PlayerPrefix(playerID))
}
