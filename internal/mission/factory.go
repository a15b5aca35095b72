package mission

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/idgen"
)

const (
	MinTable      = 2
	MaxTable      = 9
	MaxMultiplier = 9

	choiceCount    = 4
	choiceAttempts = 24
	maxVariance    = 5
	biasThreshold  = 0.4
)

// Options constrains a single mission. Zero values mean "unconstrained".
type Options struct {
	// FocusTable fixes the multiplicand.
	FocusTable int
	// Multiplier fixes the multiplier; bias and repeat avoidance are skipped.
	Multiplier int
	// MultiplierBias replaces the random multiplier about 60% of the time.
	MultiplierBias int
	// EnsureDifferentFrom nudges the multiplier once if the pair would repeat.
	EnsureDifferentFrom *domain.Mission
}

// Factory builds missions from a seeded random source. Safe for concurrent use.
type Factory struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewFactory seeds a factory from the wall clock.
func NewFactory() *Factory {
	return NewFactoryWithSeed(time.Now().UnixNano())
}

// NewFactoryWithSeed is used by tests for reproducible missions.
func NewFactoryWithSeed(seed int64) *Factory {
	return &Factory{rnd: rand.New(rand.NewSource(seed))}
}

// Create builds a mission that always satisfies the mission invariants.
func (f *Factory) Create(opts Options) domain.Mission {
	f.mu.Lock()
	defer f.mu.Unlock()

	multiplicand := opts.FocusTable
	if multiplicand == 0 {
		multiplicand = f.rnd.Intn(MaxTable-MinTable+1) + MinTable
	}

	multiplier := opts.Multiplier
	if multiplier == 0 {
		multiplier = f.rnd.Intn(MaxMultiplier) + 1
		if opts.MultiplierBias != 0 && f.rnd.Float64() > biasThreshold {
			multiplier = opts.MultiplierBias
		}
		if prev := opts.EnsureDifferentFrom; prev != nil &&
			prev.Multiplicand == multiplicand && prev.Multiplier == multiplier {
			if multiplier == MaxMultiplier {
				multiplier--
			} else {
				multiplier++
			}
		}
	}

	answer := multiplicand * multiplier
	return domain.Mission{
		ID:            idgen.New("mission"),
		Multiplicand:  multiplicand,
		Multiplier:    multiplier,
		Answer:        answer,
		Choices:       f.choices(answer),
		FocusTable:    multiplicand,
		Prompt:        f.pick(prompts),
		NarrativeHook: f.pick(narrativeHooks),
		RewardHint:    f.pick(rewardHints),
	}
}

// choices returns four distinct values >= 1, including answer, sorted ascending.
func (f *Factory) choices(answer int) []int {
	set := map[int]struct{}{answer: {}}
	order := []int{answer}
	add := func(v int) {
		if v < 1 {
			v = 1
		}
		if _, ok := set[v]; ok {
			return
		}
		set[v] = struct{}{}
		order = append(order, v)
	}

	for attempts := 0; len(order) < choiceCount && attempts < choiceAttempts; attempts++ {
		variance := f.rnd.Intn(maxVariance) + 1
		direction := 1
		if f.rnd.Float64() <= 0.5 {
			direction = -1
		}
		add(answer + variance*direction)
	}

	for offset := 1; len(order) < choiceCount; offset++ {
		add(answer - offset)
		if len(order) < choiceCount {
			add(answer + offset)
		}
	}

	out := append([]int(nil), order[:choiceCount]...)
	sort.Ints(out)
	return out
}

func (f *Factory) pick(items []string) string {
	return items[f.rnd.Intn(len(items))]
}

// Evaluate reports whether supplied equals the mission's answer.
func Evaluate(m domain.Mission, supplied int) bool {
	return supplied == m.Answer
}

// ScheduleReview copies a mission under a fresh id for spaced repetition,
// delay being the number of questions until it comes back.
func ScheduleReview(m domain.Mission, delay int) domain.Mission {
	review := m
	review.ID = idgen.New("review")
	review.Choices = append([]int(nil), m.Choices...)
	review.NarrativeHook = fmt.Sprintf("Review %d x %d once more and your memory gets super strong!", m.Multiplicand, m.Multiplier)
	review.RewardHint = fmt.Sprintf("Finish the review card for bonus training points. See it again in %d questions!", delay)
	return review
}
