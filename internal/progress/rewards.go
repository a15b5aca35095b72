package progress

import (
	"math/rand"
	"sync"
	"time"

	"times-table-adventure/internal/domain"
	"times-table-adventure/internal/idgen"
)

var rewardPool = []domain.Reward{
	{Name: "Sunshine Badge", Description: "A shiny badge for finishing a new times table.", Icon: "🌞", Rarity: domain.RarityCommon},
	{Name: "Rainbow Sticker", Description: "A keepsake for three correct answers in a row.", Icon: "🌈", Rarity: domain.RarityCommon},
	{Name: "Star Cape", Description: "A limited cape for beating your best streak.", Icon: "🦸", Rarity: domain.RarityRare},
	{Name: "Music Buddy", Description: "A note-shaped pet won by answering in rhythm.", Icon: "🎵", Rarity: domain.RarityRare},
	{Name: "Treasure Key", Description: "A special key that opens the mystery chest.", Icon: "🗝️", Rarity: domain.RarityEpic},
	{Name: "Bubble Shield", Description: "Only earned with zero mistakes in five questions.", Icon: "🫧", Rarity: domain.RarityEpic},
}

// Rewarder picks rewards from the pool. Safe for concurrent use.
type Rewarder struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRewarder() *Rewarder {
	return NewRewarderWithSeed(time.Now().UnixNano())
}

func NewRewarderWithSeed(seed int64) *Rewarder {
	return &Rewarder{rnd: rand.New(rand.NewSource(seed))}
}

// AwardFor returns a reward earned by the tally, or nil.
// Checks run in priority order: every fifth streak answer is rare, matching
// the best streak with stars banked is epic, every fourth answer is common.
func (r *Rewarder) AwardFor(t Tally) *domain.Reward {
	switch {
	case t.Streak > 0 && t.Streak%5 == 0:
		return r.choose(domain.RarityRare)
	case t.BestStreak > 0 && t.Stars > 0 && t.BestStreak == t.Streak:
		return r.choose(domain.RarityEpic)
	case t.Answered > 0 && t.Answered%4 == 0:
		return r.choose(domain.RarityCommon)
	}
	return nil
}

// DailyChallenge returns an epic or rare reward with equal odds.
func (r *Rewarder) DailyChallenge() domain.Reward {
	r.mu.Lock()
	epic := r.rnd.Float64() > 0.5
	r.mu.Unlock()
	if epic {
		return *r.choose(domain.RarityEpic)
	}
	return *r.choose(domain.RarityRare)
}

func (r *Rewarder) choose(rarity domain.RewardRarity) *domain.Reward {
	candidates := make([]domain.Reward, 0, 2)
	for _, reward := range rewardPool {
		if reward.Rarity == rarity {
			candidates = append(candidates, reward)
		}
	}
	r.mu.Lock()
	picked := candidates[r.rnd.Intn(len(candidates))]
	r.mu.Unlock()

	picked.ID = idgen.New("reward")
	return &picked
}
