package game

import (
	"time"

	"times-table-adventure/internal/domain"
)

// Completion is only set once a session has finished.
type Completion struct {
	At           time.Time
	Duration     time.Duration
	CorrectCount int
	Score        int
}

// State is the whole of one play-through. Reduce never mutates a State in
// place, so callers may keep old values around.
type State struct {
	Status     domain.SessionStatus
	Mode       domain.SessionMode
	Pattern    domain.QuestionPattern
	FocusTable int

	Questions    []domain.Mission
	CurrentIndex int
	Answers      []domain.AttemptRecord
	Feedback     *domain.Feedback

	ShowCelebration bool
	SessionStart    time.Time
	Completion      *Completion
}

// InitialState is the menu a new player lands on.
func InitialState() State {
	return State{
		Status:     domain.StatusSetup,
		Mode:       domain.ModePractice,
		Pattern:    domain.PatternRandom,
		FocusTable: 2,
	}
}

// CurrentMission is the mission awaiting an answer, if playing.
func (s State) CurrentMission() (domain.Mission, bool) {
	if s.Status != domain.StatusPlaying || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return domain.Mission{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// CorrectCount counts correct attempts so far.
func (s State) CorrectCount() int {
	return countCorrect(s.Answers)
}

func countCorrect(answers []domain.AttemptRecord) int {
	n := 0
	for _, a := range answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}
