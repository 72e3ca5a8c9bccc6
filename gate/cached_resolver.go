package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachedResolver memoizes profiles for ttl. Concurrent misses for the same
// subject share one call to the inner resolver. A lookup that was in flight
// when the subject was invalidated is returned to its callers but not cached.
type CachedResolver[U comparable] struct {
	inner ProfileResolver[U]
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[U]cachedProfile
	gens    map[U]uint64
	epoch   uint64
	group   singleflight.Group
}

type cachedProfile struct {
	profile   Profile
	expiresAt time.Time
}

func NewCachedResolver[U comparable](inner ProfileResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[U]cachedProfile),
		gens:    make(map[U]uint64),
	}
}

func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	r.mu.RLock()
	e, ok := r.entries[user]
	epoch, gen := r.epoch, r.gens[user]
	r.mu.RUnlock()
	if ok && r.now().Before(e.expiresAt) {
		return e.profile, nil
	}

	// Joined callers must not fail because the first caller went away.
	lookupCtx := context.WithoutCancel(ctx)
	key := fmt.Sprintf("%v/%d/%d", user, epoch, gen)
	v, err, _ := r.group.Do(key, func() (any, error) {
		p, err := r.inner.Resolve(lookupCtx, user)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		if r.epoch == epoch && r.gens[user] == gen {
			r.entries[user] = cachedProfile{profile: p, expiresAt: r.now().Add(r.ttl)}
		}
		r.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p, _ := v.(Profile)
	return p, nil
}

// Invalidate drops one subject, e.g. after a role change.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.mu.Lock()
	delete(r.entries, user)
	r.gens[user]++
	r.mu.Unlock()
}

func (r *CachedResolver[U]) InvalidateAll() {
	r.mu.Lock()
	r.entries = make(map[U]cachedProfile)
	r.gens = make(map[U]uint64)
	r.epoch++
	r.mu.Unlock()
}
