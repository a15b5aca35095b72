package game

import (
	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/mission"
	"times-table-adventure/internal/progress"
)

// Position is the 1-based question counter; {0, total} outside play.
type Position struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// View is the read-only projection handed to renderers after each transition.
type View struct {
	PlayerID   string                 `json:"playerId,omitempty"`
	Status     domain.SessionStatus   `json:"status"`
	Mode       domain.SessionMode     `json:"mode"`
	Pattern    domain.QuestionPattern `json:"pattern"`
	FocusTable int                    `json:"focusTable"`

	Mission          *domain.Mission  `json:"mission,omitempty"`
	Progress         Position         `json:"progress"`
	CorrectCount     int              `json:"correctCount"`
	Feedback         *domain.Feedback `json:"feedback,omitempty"`
	Perfect          bool             `json:"perfect"`
	Score            *int             `json:"score,omitempty"`
	CompletionTimeMs *int64           `json:"completionTimeMs,omitempty"`

	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
	Tally       progress.Tally            `json:"tally"`
	Rewards     []domain.Reward           `json:"rewards"`
	Daily       *domain.Reward            `json:"dailyChallenge,omitempty"`
	Insights    *progress.Insights        `json:"insights,omitempty"`
}

// Project derives the session part of a View from s.
func Project(s State) View {
	v := View{
		Status:       s.Status,
		Mode:         s.Mode,
		Pattern:      s.Pattern,
		FocusTable:   s.FocusTable,
		Progress:     Position{Total: mission.QuestionCount},
		CorrectCount: s.CorrectCount(),
		Feedback:     s.Feedback,
		Perfect:      s.ShowCelebration,
	}
	if m, ok := s.CurrentMission(); ok {
		v.Mission = &m
		v.Progress.Current = s.CurrentIndex + 1
	}
	if c := s.Completion; c != nil {
		score := c.Score
		ms := c.Duration.Milliseconds()
		v.Score = &score
		v.CompletionTimeMs = &ms
	}
	return v
}
