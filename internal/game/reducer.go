package game

import (
	"fmt"
	"slices"
	"time"

	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/mission"
	"times-table-adventure/internal/scoring"
)

const (
	correctMessage   = "Awesome! That's right!"
	incorrectMessage = "So close! The correct answer is %d"
)

// Reducer is the session state machine: setup -> playing -> finished.
// Reduce has no error path; stale or out-of-order commands leave the state
// unchanged.
type Reducer struct {
	missions *mission.Factory
	scores   *scoring.Engine
	now      func() time.Time
}

// NewReducer wires the reducer's collaborators. now is read once per transition.
func NewReducer(missions *mission.Factory, scores *scoring.Engine, now func() time.Time) *Reducer {
	if missions == nil {
		missions = mission.NewFactory()
	}
	if scores == nil {
		scores = scoring.NewEngine(scoring.DefaultConfig())
	}
	if now == nil {
		now = time.Now
	}
	return &Reducer{missions: missions, scores: scores, now: now}
}

// Reduce returns the state that follows s under a.
func (r *Reducer) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case UpdateMode:
		s.Mode = a.Mode
		if a.Mode == domain.ModePractice {
			s.Pattern = domain.PatternRandom
		}
		return s
	case UpdatePattern:
		s.Pattern = a.Pattern
		return s
	case UpdateFocusTable:
		s.FocusTable = a.Table
		return s
	case StartSession:
		return r.start(s)
	case SubmitAnswer:
		return r.submit(s, a.Answer)
	case ResetToMenu:
		return reset(s)
	}
	return s
}

func (r *Reducer) start(s State) State {
	s.Status = domain.StatusPlaying
	s.Questions = r.missions.BuildQuestionSet(s.Pattern, s.FocusTable)
	s.CurrentIndex = 0
	s.Answers = nil
	s.Feedback = nil
	s.ShowCelebration = false
	s.SessionStart = r.now()
	s.Completion = nil
	return s
}

func (r *Reducer) submit(s State, answer int) State {
	current, ok := s.CurrentMission()
	if !ok {
		return s
	}

	isCorrect := mission.Evaluate(current, answer)
	answers := append(slices.Clip(s.Answers), domain.AttemptRecord{
		Mission:        current,
		SuppliedAnswer: answer,
		IsCorrect:      isCorrect,
	})

	s.Answers = answers
	s.Feedback = feedbackFor(current, isCorrect)

	next := s.CurrentIndex + 1
	if next < mission.QuestionCount {
		s.CurrentIndex = next
		return s
	}

	completedAt := r.now()
	duration := completedAt.Sub(s.SessionStart)
	correct := countCorrect(answers)

	s.Status = domain.StatusFinished
	s.CurrentIndex = mission.QuestionCount - 1
	s.ShowCelebration = len(answers) == mission.QuestionCount && correct == len(answers)
	s.Completion = &Completion{
		At:           completedAt,
		Duration:     duration,
		CorrectCount: correct,
		Score:        r.scores.Timed(correct, mission.QuestionCount, duration),
	}
	return s
}

func reset(s State) State {
	s.Status = domain.StatusSetup
	s.Questions = nil
	s.CurrentIndex = 0
	s.Answers = nil
	s.Feedback = nil
	s.ShowCelebration = false
	s.SessionStart = time.Time{}
	s.Completion = nil
	return s
}

func feedbackFor(m domain.Mission, correct bool) *domain.Feedback {
	if correct {
		return &domain.Feedback{Type: domain.FeedbackCorrect, Message: correctMessage}
	}
	return &domain.Feedback{
		Type:    domain.FeedbackIncorrect,
		Message: fmt.Sprintf(incorrectMessage, m.Answer),
	}
}
