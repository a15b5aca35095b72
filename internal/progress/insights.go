package progress

import (
	"math"
	"time"

	"times-table-adventure/internal/domain"
)

// TableAccuracy is the share of correct answers on one times table.
type TableAccuracy struct {
	Table    int     `json:"table"`
	Accuracy float64 `json:"accuracy"`
}

// Insights summarises a batch of attempts for the end-of-session screen.
type Insights struct {
	Accuracy             float64         `json:"accuracy"`
	TimeSpentMinutes     float64         `json:"timeSpentMinutes"`
	FocusTables          []TableAccuracy `json:"focusTables"`
	NextRecommendedTable int             `json:"nextRecommendedTable"`
	RecentWeakSpot       int             `json:"recentWeakSpot,omitempty"`
}

const weakSpotThreshold = 0.7

// BuildInsights buckets attempts by multiplicand in first-seen order. The
// lowest-accuracy table becomes the recommendation (1 when every table is
// perfect) and is flagged as a weak spot below 70%.
func BuildInsights(attempts []domain.AttemptRecord, answered, correct int, startedAt, now time.Time) Insights {
	type bucket struct{ correct, total int }
	buckets := make(map[int]*bucket)
	order := make([]int, 0)
	for _, attempt := range attempts {
		table := attempt.Mission.Multiplicand
		b, ok := buckets[table]
		if !ok {
			b = &bucket{}
			buckets[table] = b
			order = append(order, table)
		}
		b.total++
		if attempt.IsCorrect {
			b.correct++
		}
	}

	lowestTable, lowest := 1, 1.0
	focus := make([]TableAccuracy, 0, len(order))
	for _, table := range order {
		b := buckets[table]
		accuracy := 0.0
		if b.total > 0 {
			accuracy = float64(b.correct) / float64(b.total)
		}
		if accuracy < lowest {
			lowest = accuracy
			lowestTable = table
		}
		focus = append(focus, TableAccuracy{Table: table, Accuracy: round(accuracy, 100)})
	}

	elapsed := now.Sub(startedAt)
	if elapsed < time.Millisecond {
		elapsed = time.Millisecond
	}

	out := Insights{
		TimeSpentMinutes:     round(elapsed.Minutes(), 10),
		FocusTables:          focus,
		NextRecommendedTable: lowestTable,
	}
	if answered > 0 {
		out.Accuracy = round(float64(correct)/float64(answered), 100)
	}
	if lowest < weakSpotThreshold {
		out.RecentWeakSpot = lowestTable
	}
	return out
}

func round(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}
