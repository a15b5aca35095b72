package game

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/mission"
	"times-table-adventure/internal/scoring"
)

type fakeClock struct{ t time.Time }

func newFakeClock(ms int64) *fakeClock { return &fakeClock{t: time.UnixMilli(ms)} }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestReducer(clock *fakeClock) *Reducer {
	return NewReducer(mission.NewFactoryWithSeed(1), scoring.NewEngine(scoring.DefaultConfig()), clock.Now)
}

func sequentialState(r *Reducer, mode domain.SessionMode, table int) State {
	s := InitialState()
	s = r.Reduce(s, UpdateMode{Mode: mode})
	s = r.Reduce(s, UpdatePattern{Pattern: domain.PatternSequential})
	s = r.Reduce(s, UpdateFocusTable{Table: table})
	return r.Reduce(s, StartSession{})
}

func TestInitialState(t *testing.T) {
	s := InitialState()
	assert.Equal(t, domain.StatusSetup, s.Status)
	assert.Equal(t, domain.ModePractice, s.Mode)
	assert.Equal(t, domain.PatternRandom, s.Pattern)
	assert.Equal(t, 2, s.FocusTable)
	assert.Empty(t, s.Questions)
	assert.Nil(t, s.Completion)
}

func TestPracticeModeResetsPattern(t *testing.T) {
	r := newTestReducer(newFakeClock(0))
	s := InitialState()
	s = r.Reduce(s, UpdateMode{Mode: domain.ModeChallenge})
	s = r.Reduce(s, UpdatePattern{Pattern: domain.PatternSequential})
	require.Equal(t, domain.PatternSequential, s.Pattern)

	s = r.Reduce(s, UpdateMode{Mode: domain.ModePractice})
	assert.Equal(t, domain.PatternRandom, s.Pattern)

	s = r.Reduce(s, UpdatePattern{Pattern: domain.PatternSequential})
	s = r.Reduce(s, UpdateMode{Mode: domain.ModeChallenge})
	assert.Equal(t, domain.PatternSequential, s.Pattern)
}

func TestStartBuildsNineQuestions(t *testing.T) {
	clock := newFakeClock(5000)
	r := newTestReducer(clock)
	s := sequentialState(r, domain.ModeChallenge, 7)

	assert.Equal(t, domain.StatusPlaying, s.Status)
	require.Len(t, s.Questions, mission.QuestionCount)
	for i, q := range s.Questions {
		assert.Equal(t, 7, q.Multiplicand)
		assert.Equal(t, i+1, q.Multiplier)
	}
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Empty(t, s.Answers)
	assert.Equal(t, clock.Now(), s.SessionStart)
}

func TestPerfectSequentialRun(t *testing.T) {
	clock := newFakeClock(0)
	r := newTestReducer(clock)
	s := sequentialState(r, domain.ModeChallenge, 2)

	for i := 1; i <= mission.QuestionCount; i++ {
		s = r.Reduce(s, SubmitAnswer{Answer: 2 * i})
	}

	assert.Equal(t, domain.StatusFinished, s.Status)
	assert.True(t, s.ShowCelebration)
	assert.Equal(t, mission.QuestionCount-1, s.CurrentIndex)
	require.NotNil(t, s.Completion)
	assert.Equal(t, mission.QuestionCount, s.Completion.CorrectCount)
	assert.Equal(t, domain.FeedbackCorrect, s.Feedback.Type)
}

func TestWrongAnswerAdvancesWithFeedback(t *testing.T) {
	r := newTestReducer(newFakeClock(0))
	s := sequentialState(r, domain.ModePractice, 3)
	first, ok := s.CurrentMission()
	require.True(t, ok)

	s = r.Reduce(s, SubmitAnswer{Answer: first.Answer + 1})

	require.Len(t, s.Answers, 1)
	assert.False(t, s.Answers[0].IsCorrect)
	assert.Equal(t, first.Answer+1, s.Answers[0].SuppliedAnswer)
	assert.Equal(t, 1, s.CurrentIndex)
	require.NotNil(t, s.Feedback)
	assert.Equal(t, domain.FeedbackIncorrect, s.Feedback.Type)
	assert.Contains(t, s.Feedback.Message, strconv.Itoa(first.Answer))
	assert.Equal(t, domain.StatusPlaying, s.Status)
}

func TestTimedScore(t *testing.T) {
	clock := newFakeClock(5000)
	r := newTestReducer(clock)
	s := sequentialState(r, domain.ModeChallenge, 4)

	for i := 1; i <= mission.QuestionCount; i++ {
		if i < mission.QuestionCount {
			clock.Advance(2 * time.Second)
		} else {
			clock.t = time.UnixMilli(50000)
		}
		s = r.Reduce(s, SubmitAnswer{Answer: 4 * i})
	}

	require.NotNil(t, s.Completion)
	assert.Equal(t, 45*time.Second, s.Completion.Duration)
	assert.Equal(t, 800, s.Completion.Score)
	assert.Equal(t, int64(50000), s.Completion.At.UnixMilli())
}

func TestSubmitOutsidePlayIsNoop(t *testing.T) {
	r := newTestReducer(newFakeClock(0))
	s := InitialState()
	assert.Equal(t, s, r.Reduce(s, SubmitAnswer{Answer: 4}))

	finished := sequentialState(r, domain.ModeChallenge, 2)
	for i := 1; i <= mission.QuestionCount; i++ {
		finished = r.Reduce(finished, SubmitAnswer{Answer: 0})
	}
	require.Equal(t, domain.StatusFinished, finished.Status)
	after := r.Reduce(finished, SubmitAnswer{Answer: 2})
	assert.Equal(t, finished, after)
	assert.Len(t, after.Answers, mission.QuestionCount)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	r := newTestReducer(newFakeClock(0))
	s := sequentialState(r, domain.ModeChallenge, 5)
	s = r.Reduce(s, SubmitAnswer{Answer: 5})
	before := append([]domain.AttemptRecord(nil), s.Answers...)

	_ = r.Reduce(s, SubmitAnswer{Answer: 10})
	assert.Equal(t, before, s.Answers)
	assert.Equal(t, 1, s.CurrentIndex)
}

func TestResetKeepsSelections(t *testing.T) {
	r := newTestReducer(newFakeClock(0))
	s := sequentialState(r, domain.ModeChallenge, 6)
	for i := 1; i <= mission.QuestionCount; i++ {
		s = r.Reduce(s, SubmitAnswer{Answer: 6 * i})
	}

	s = r.Reduce(s, ResetToMenu{})
	assert.Equal(t, domain.StatusSetup, s.Status)
	assert.Equal(t, domain.ModeChallenge, s.Mode)
	assert.Equal(t, domain.PatternSequential, s.Pattern)
	assert.Equal(t, 6, s.FocusTable)
	assert.Empty(t, s.Questions)
	assert.Empty(t, s.Answers)
	assert.Nil(t, s.Feedback)
	assert.Nil(t, s.Completion)
	assert.False(t, s.ShowCelebration)
	assert.True(t, s.SessionStart.IsZero())
}

func TestRestartMidSession(t *testing.T) {
	clock := newFakeClock(1000)
	r := newTestReducer(clock)
	s := sequentialState(r, domain.ModeChallenge, 2)
	s = r.Reduce(s, SubmitAnswer{Answer: 2})

	clock.Advance(time.Minute)
	s = r.Reduce(s, StartSession{})
	assert.Equal(t, domain.StatusPlaying, s.Status)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Empty(t, s.Answers)
	assert.Nil(t, s.Feedback)
	assert.Equal(t, clock.Now(), s.SessionStart)
}

func TestProjectProgress(t *testing.T) {
	r := newTestReducer(newFakeClock(0))
	v := Project(InitialState())
	assert.Equal(t, Position{Current: 0, Total: mission.QuestionCount}, v.Progress)
	assert.Nil(t, v.Mission)
	assert.Nil(t, v.Score)

	s := sequentialState(r, domain.ModeChallenge, 2)
	s = r.Reduce(s, SubmitAnswer{Answer: 2})
	v = Project(s)
	assert.Equal(t, Position{Current: 2, Total: mission.QuestionCount}, v.Progress)
	require.NotNil(t, v.Mission)
	assert.Equal(t, 2, v.Mission.Multiplier)
	assert.Equal(t, 1, v.CorrectCount)
}
