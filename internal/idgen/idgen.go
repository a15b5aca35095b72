// Package idgen hands out process-unique identifiers.
package idgen

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	counter atomic.Uint64

	rndMu sync.Mutex
	rnd   = rand.New(rand.NewSource(time.Now().UnixNano()))

	now = time.Now
)

// New returns "<prefix>-<epoch ms>-<counter>-<random>". The counter alone keeps
// ids unique within the process, even for calls in the same millisecond.
func New(prefix string) string {
	if prefix == "" {
		prefix = "mul"
	}
	n := counter.Add(1)

	rndMu.Lock()
	slice := rnd.Intn(1000)
	rndMu.Unlock()

	return fmt.Sprintf("%s-%d-%d-%d", prefix, now().UnixMilli(), n, slice)
}

// NewEntryID returns a random UUID for leaderboard entries.
func NewEntryID() string {
	return uuid.NewString()
}
