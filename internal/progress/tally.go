// Package progress keeps a learner's running tally, hands out rewards and
// summarises finished sessions.
package progress

import "slices"

// Tally accumulates across sessions for the lifetime of a game host.
type Tally struct {
	Answered       int   `json:"answered"`
	Correct        int   `json:"correct"`
	Incorrect      int   `json:"incorrect"`
	Streak         int   `json:"streak"`
	BestStreak     int   `json:"bestStreak"`
	Stars          int   `json:"stars"`
	UnlockedTables []int `json:"unlockedTables"`
}

// OnCorrect records a correct answer on table and unlocks it.
func OnCorrect(t Tally, table int) Tally {
	next := t
	next.Answered++
	next.Correct++
	next.Streak++
	if next.Streak > next.BestStreak {
		next.BestStreak = next.Streak
	}
	next.UnlockedTables = unlock(t.UnlockedTables, table)
	return next
}

// OnMiss records a wrong answer and breaks the streak.
func OnMiss(t Tally) Tally {
	next := t
	next.Answered++
	next.Incorrect++
	next.Streak = 0
	return next
}

// GainStars awards a star on every third consecutive correct answer.
func GainStars(streak, stars int) int {
	if streak > 0 && streak%3 == 0 {
		return stars + 1
	}
	return stars
}

func unlock(tables []int, table int) []int {
	out := slices.Clone(tables)
	if slices.Contains(out, table) {
		return out
	}
	out = append(out, table)
	slices.Sort(out)
	return out
}
