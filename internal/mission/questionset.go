package mission

import "times-table-adventure/internal/domain"

// QuestionCount is the fixed size of every session's question set.
const QuestionCount = 9

// BuildQuestionSet returns exactly QuestionCount missions for the pattern.
func (f *Factory) BuildQuestionSet(pattern domain.QuestionPattern, focusTable int) []domain.Mission {
	var missions []domain.Mission
	if pattern == domain.PatternSequential {
		missions = f.sequential(focusTable)
	} else {
		missions = f.random()
	}
	return f.normalize(missions)
}

func (f *Factory) sequential(focusTable int) []domain.Mission {
	missions := make([]domain.Mission, 0, QuestionCount)
	for multiplier := 1; multiplier <= QuestionCount; multiplier++ {
		missions = append(missions, f.Create(Options{FocusTable: focusTable, Multiplier: multiplier}))
	}
	return missions
}

// random avoids immediate repeats only; a pair may come back two or more steps later.
func (f *Factory) random() []domain.Mission {
	missions := make([]domain.Mission, 0, QuestionCount)
	for i := 0; i < QuestionCount; i++ {
		missions = append(missions, f.Create(Options{EnsureDifferentFrom: last(missions)}))
	}
	return missions
}

// normalize truncates or pads the set to QuestionCount.
func (f *Factory) normalize(missions []domain.Mission) []domain.Mission {
	if len(missions) > QuestionCount {
		return missions[:QuestionCount]
	}
	for len(missions) < QuestionCount {
		missions = append(missions, f.Create(Options{EnsureDifferentFrom: last(missions)}))
	}
	return missions
}

func last(missions []domain.Mission) *domain.Mission {
	if len(missions) == 0 {
		return nil
	}
	m := missions[len(missions)-1]
	return &m
}
