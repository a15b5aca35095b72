package game

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/leaderboard"
	"times-table-adventure/internal/mission"
	"times-table-adventure/internal/progress"
	"times-table-adventure/internal/scoring"
)

// Options wires a Game. Nil collaborators get production defaults.
type Options struct {
	PlayerID string
	Missions *mission.Factory
	Scores   *scoring.Engine
	Rewarder *progress.Rewarder
	Board    *leaderboard.Store
	Now      func() time.Time
}

// Outcome carries the facts a consumer needs to pick sounds and effects.
type Outcome struct {
	Applied  bool
	Answered bool
	Correct  bool
	Finished bool
	Perfect  bool
	Rewards  []domain.Reward
	Entry    *domain.LeaderboardEntry
}

// Game hosts one player's session state, running tally and leaderboard, and
// fans views out to subscribed renderers.
type Game struct {
	playerID string
	reducer  *Reducer
	rewarder *progress.Rewarder
	board    *leaderboard.Store
	daily    domain.Reward

	mu          sync.Mutex
	state       State
	tally       progress.Tally
	rewards     []domain.Reward
	insights    *progress.Insights
	subscribers map[chan View]struct{}
}

// New creates a game on the setup screen. The board should already be loaded.
func New(opts Options) *Game {
	rewarder := opts.Rewarder
	if rewarder == nil {
		rewarder = progress.NewRewarder()
	}
	board := opts.Board
	if board == nil {
		board = leaderboard.NewStore(nil, zerolog.Nop())
	}
	return &Game{
		playerID:    opts.PlayerID,
		reducer:     NewReducer(opts.Missions, opts.Scores, opts.Now),
		rewarder:    rewarder,
		board:       board,
		daily:       rewarder.DailyChallenge(),
		state:       InitialState(),
		tally:       progress.Tally{UnlockedTables: []int{}},
		rewards:     []domain.Reward{},
		subscribers: make(map[chan View]struct{}),
	}
}

// PlayerID identifies the game's owner.
func (g *Game) PlayerID() string { return g.playerID }

// Dispatch applies a through the reducer, then records a finished session on
// the leaderboard and notifies subscribers.
func (g *Game) Dispatch(ctx context.Context, a Action) Outcome {
	g.mu.Lock()
	prev := g.state
	next := g.reducer.Reduce(prev, a)
	g.state = next

	out := Outcome{Applied: true}
	if _, ok := a.(SubmitAnswer); ok {
		out.Applied = len(next.Answers) > len(prev.Answers)
		if out.Applied {
			out.Answered = true
			g.trackAnswerLocked(next.Answers[len(next.Answers)-1], &out)
		}
	}

	var result *leaderboard.Result
	if prev.Status == domain.StatusPlaying && next.Status == domain.StatusFinished && next.Completion != nil {
		out.Finished = true
		out.Perfect = next.ShowCelebration
		insights := progress.BuildInsights(next.Answers, len(next.Answers), next.Completion.CorrectCount, next.SessionStart, next.Completion.At)
		g.insights = &insights
		result = &leaderboard.Result{
			Score:          next.Completion.Score,
			CorrectCount:   next.Completion.CorrectCount,
			TotalQuestions: mission.QuestionCount,
			Duration:       next.Completion.Duration,
			Mode:           next.Mode,
			CompletedAt:    next.Completion.At,
		}
	} else if next.Status != domain.StatusFinished {
		g.insights = nil
	}
	g.mu.Unlock()

	if result != nil {
		if entry, added := g.board.Record(ctx, *result); added {
			out.Entry = &entry
		}
	}

	if out.Applied {
		g.broadcast()
	}
	return out
}

func (g *Game) trackAnswerLocked(attempt domain.AttemptRecord, out *Outcome) {
	out.Correct = attempt.IsCorrect
	if attempt.IsCorrect {
		g.tally = progress.OnCorrect(g.tally, attempt.Mission.Multiplicand)
		g.tally.Stars = progress.GainStars(g.tally.Streak, g.tally.Stars)
	} else {
		g.tally = progress.OnMiss(g.tally)
	}
	if reward := g.rewarder.AwardFor(g.tally); reward != nil {
		g.rewards = append(g.rewards, *reward)
		out.Rewards = append(out.Rewards, *reward)
	}
}

func (g *Game) UpdateMode(ctx context.Context, mode domain.SessionMode) Outcome {
	return g.Dispatch(ctx, UpdateMode{Mode: mode})
}

func (g *Game) UpdatePattern(ctx context.Context, pattern domain.QuestionPattern) Outcome {
	return g.Dispatch(ctx, UpdatePattern{Pattern: pattern})
}

func (g *Game) UpdateFocusTable(ctx context.Context, table int) Outcome {
	return g.Dispatch(ctx, UpdateFocusTable{Table: table})
}

func (g *Game) StartSession(ctx context.Context) Outcome {
	return g.Dispatch(ctx, StartSession{})
}

func (g *Game) SubmitAnswer(ctx context.Context, answer int) Outcome {
	return g.Dispatch(ctx, SubmitAnswer{Answer: answer})
}

func (g *Game) ResetToMenu(ctx context.Context) Outcome {
	return g.Dispatch(ctx, ResetToMenu{})
}

// State returns a copy of the current session state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Leaderboard returns the current board snapshot.
func (g *Game) Leaderboard() []domain.LeaderboardEntry {
	return g.board.Entries()
}

// View projects the current state for renderers.
func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.viewLocked()
}

func (g *Game) viewLocked() View {
	v := Project(g.state)
	v.PlayerID = g.playerID
	v.Leaderboard = g.board.Entries()
	v.Tally = g.tally
	v.Tally.UnlockedTables = slices.Clone(g.tally.UnlockedTables)
	v.Rewards = slices.Clone(g.rewards)
	daily := g.daily
	v.Daily = &daily
	if g.insights != nil {
		insights := *g.insights
		v.Insights = &insights
	}
	return v
}

// Subscribe returns a channel of views, primed with the current one. The
// caller must invoke the returned cancel function to avoid leaks.
func (g *Game) Subscribe() (<-chan View, func()) {
	ch := make(chan View, 8)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	ch <- g.viewLocked()
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

// HasSubscribers reports whether any renderer is still attached.
func (g *Game) HasSubscribers() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subscribers) > 0
}

func (g *Game) broadcast() {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := g.viewLocked()
	for ch := range g.subscribers {
		select {
		case ch <- v:
		default:
			// drop the oldest view so a slow renderer cannot stall play
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}
