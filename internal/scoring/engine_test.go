package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccuracyOnly(t *testing.T) {
	e := NewEngine(DefaultConfig())
	assert.Equal(t, 1000, e.Calculate(9, 9, nil))
	assert.Equal(t, 0, e.Calculate(0, 9, nil))
	assert.Equal(t, 556, e.Calculate(5, 9, nil))
}

func TestDegenerateTotal(t *testing.T) {
	e := NewEngine(DefaultConfig())
	d := 10 * time.Second
	assert.Equal(t, 0, e.Calculate(3, 0, nil))
	assert.Equal(t, 0, e.Calculate(3, -1, &d))
}

func TestTimedScore(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// 36s target over 45s elapsed -> 0.8
	assert.Equal(t, 800, e.Timed(9, 9, 45*time.Second))
	// exactly on pace
	assert.Equal(t, 1000, e.Timed(9, 9, 36*time.Second))
	// very fast clamps to 1.6
	assert.Equal(t, 1600, e.Timed(9, 9, 2*time.Second))
	// very slow clamps to 0.6
	assert.Equal(t, 600, e.Timed(9, 9, 10*time.Minute))
	// zero or negative elapsed uses the maximum multiplier
	assert.Equal(t, 1600, e.Timed(9, 9, 0))
	assert.Equal(t, 1600, e.Timed(9, 9, -time.Second))
}

func TestScoreBounds(t *testing.T) {
	e := NewEngine(DefaultConfig())
	durations := []time.Duration{0, time.Millisecond, 5 * time.Second, 36 * time.Second, time.Hour}
	for total := 1; total <= 12; total++ {
		for correct := 0; correct <= total; correct++ {
			for _, d := range durations {
				d := d
				score := e.Calculate(correct, total, &d)
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 1600)
				if correct == 0 {
					assert.Equal(t, 0, score)
				}
			}
		}
	}
}
