package memory

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"times-table-adventure/internal/kv"
)

// CachedStore fronts a slower kv.Store with a TTL cache. Writes go through
// to the backing store before the cache is updated; misses are cached too.
type CachedStore struct {
	backing kv.Store
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedValue
}

type cachedValue struct {
	value     []byte
	missing   bool
	expiresAt time.Time
}

func NewCachedStore(backing kv.Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		backing: backing,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:   make(map[string]cachedValue),
	}
}

func (s *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if entry, ok := s.lookup(key, s.clock()); ok {
		return entry.result()
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		now := s.clock()
		if entry, ok := s.lookup(key, now); ok {
			return entry, nil
		}

		value, err := s.backing.Get(ctx, key)
		if err != nil && !errors.Is(err, kv.ErrNotFound) {
			return cachedValue{}, err
		}
		entry := cachedValue{
			value:     value,
			missing:   err != nil,
			expiresAt: now.Add(s.ttlWithJitter()),
		}
		s.mu.Lock()
		s.cache[key] = entry
		s.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(cachedValue).result()
}

func (s *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.backing.Set(ctx, key, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[key] = cachedValue{
		value:     slices.Clone(value),
		expiresAt: s.clock().Add(s.ttlWithJitterLocked()),
	}
	s.mu.Unlock()
	return nil
}

func (s *CachedStore) lookup(key string, now time.Time) (cachedValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[key]
	if !ok || !entry.expiresAt.After(now) {
		return cachedValue{}, false
	}
	return entry, true
}

func (e cachedValue) result() ([]byte, error) {
	if e.missing {
		return nil, kv.ErrNotFound
	}
	return slices.Clone(e.value), nil
}

func (s *CachedStore) ttlWithJitter() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttlWithJitterLocked()
}

func (s *CachedStore) ttlWithJitterLocked() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(s.ttl) / 10
	return s.ttl + time.Duration(s.rnd.Int63n(jitterMax+1))
}
