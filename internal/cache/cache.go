// Package cache provides JSON value caches backed by Redis or process memory,
// and the token bookkeeping built on top of them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrMiss is returned by Take when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache stores JSON-encoded values with a TTL.
type Cache interface {
	// Get decodes the value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Take atomically reads and removes a key.
	Take(ctx context.Context, key string, dst any) error
	Ping(ctx context.Context) error
	Stats() Stats
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Sets: c.sets.Load()}
}

type entry struct {
	value      []byte
	expiration time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiration.IsZero() && now.After(e.expiration)
}

// MemoryCache is an in-process Cache used in development and tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stats   counters

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewMemoryCache starts a janitor that drops expired entries every
// cleanupInterval; Close stops it.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	} else {
		close(c.done)
	}
	return c
}

func (c *MemoryCache) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) deleteExpired() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *MemoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.expired(time.Now()) {
		c.stats.misses.Add(1)
		return false, nil
	}
	if err := json.Unmarshal(e.value, dst); err != nil {
		c.stats.misses.Add(1)
		return false, err
	}
	c.stats.hits.Add(1)
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := entry{value: data}
	if ttl > 0 {
		e.expiration = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	c.stats.sets.Add(1)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Take(_ context.Context, key string, dst any) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()
	if !ok || e.expired(time.Now()) {
		return ErrMiss
	}
	return json.Unmarshal(e.value, dst)
}

func (c *MemoryCache) Ping(context.Context) error { return nil }

func (c *MemoryCache) Stats() Stats { return c.stats.snapshot() }

// Len counts entries, expired ones included until the janitor runs.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
	return nil
}
