package scoring

import (
	"math"
	"time"
)

// Config holds the scoring constants.
type Config struct {
	BaseScore          int           // awarded for 100% accuracy, default 1000
	TargetPerQuestion  time.Duration // target pace, default 4s
	MinSpeedMultiplier float64       // default 0.6
	MaxSpeedMultiplier float64       // default 1.6
}

// DefaultConfig returns the production scoring constants.
func DefaultConfig() Config {
	return Config{
		BaseScore:          1000,
		TargetPerQuestion:  4 * time.Second,
		MinSpeedMultiplier: 0.6,
		MaxSpeedMultiplier: 1.6,
	}
}

// Engine turns session results into an integer score.
type Engine struct {
	config Config
}

// NewEngine creates a scoring engine with the provided config.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Accuracy scores correctness only: round(correct/total * BaseScore).
// Used when no duration is known.
func (e *Engine) Accuracy(correctCount, totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	ratio := float64(correctCount) / float64(totalQuestions)
	return int(math.Round(ratio * float64(e.config.BaseScore)))
}

// Timed scales the accuracy score by a speed multiplier:
// clamp(total*TargetPerQuestion / elapsed, Min, Max). A non-positive elapsed
// time gets the maximum multiplier.
func (e *Engine) Timed(correctCount, totalQuestions int, elapsed time.Duration) int {
	if totalQuestions <= 0 {
		return 0
	}
	base := float64(e.Accuracy(correctCount, totalQuestions))
	return int(math.Round(base * e.SpeedMultiplier(totalQuestions, elapsed)))
}

// SpeedMultiplier is exported for renderers that show the pace bonus.
func (e *Engine) SpeedMultiplier(totalQuestions int, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return e.config.MaxSpeedMultiplier
	}
	target := float64(totalQuestions) * e.config.TargetPerQuestion.Seconds()
	return clamp(target/seconds, e.config.MinSpeedMultiplier, e.config.MaxSpeedMultiplier)
}

// Calculate dispatches to Timed when elapsed is known and Accuracy otherwise.
func (e *Engine) Calculate(correctCount, totalQuestions int, elapsed *time.Duration) int {
	if elapsed == nil {
		return e.Accuracy(correctCount, totalQuestions)
	}
	return e.Timed(correctCount, totalQuestions, *elapsed)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
