// Package metrics exposes prometheus collectors for game activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "times_table"

// Recorder groups the game counters. A nil *Recorder records nothing.
type Recorder struct {
	gamesOpened      prometheus.Counter
	sessionsStarted  *prometheus.CounterVec
	sessionsFinished *prometheus.CounterVec
	answers          *prometheus.CounterVec
	rewards          *prometheus.CounterVec
	activeGames      prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		gamesOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_opened_total",
			Help:      "Games loaded for a player.",
		}),
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions started, by mode and pattern.",
		}, []string{"mode", "pattern"}),
		sessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Sessions finished, by mode and whether every answer was correct.",
		}, []string{"mode", "perfect"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Accepted answers, by result.",
		}, []string{"result"}),
		rewards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rewards_total",
			Help:      "Rewards handed out, by rarity.",
		}, []string{"rarity"}),
		activeGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Games currently held in memory.",
		}),
	}
	reg.MustRegister(r.gamesOpened, r.sessionsStarted, r.sessionsFinished, r.answers, r.rewards, r.activeGames)
	return r
}

func (r *Recorder) GameOpened() {
	if r == nil {
		return
	}
	r.gamesOpened.Inc()
	r.activeGames.Inc()
}

func (r *Recorder) GameClosed() {
	if r == nil {
		return
	}
	r.activeGames.Dec()
}

func (r *Recorder) SessionStarted(mode, pattern string) {
	if r == nil {
		return
	}
	r.sessionsStarted.WithLabelValues(mode, pattern).Inc()
}

func (r *Recorder) SessionFinished(mode string, perfect bool) {
	if r == nil {
		return
	}
	label := "false"
	if perfect {
		label = "true"
	}
	r.sessionsFinished.WithLabelValues(mode, label).Inc()
}

func (r *Recorder) Answer(correct bool) {
	if r == nil {
		return
	}
	result := "miss"
	if correct {
		result = "correct"
	}
	r.answers.WithLabelValues(result).Inc()
}

func (r *Recorder) Reward(rarity string) {
	if r == nil {
		return
	}
	r.rewards.WithLabelValues(rarity).Inc()
}
