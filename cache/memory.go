package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value  string
	stored time.Time
}

// Memory is a thread-safe in-memory cache with optional TTL.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an in-memory cache. A ttl of zero or less disables
// expiry.
func NewMemory(ttl time.Duration) *Memory {
	if ttl < 0 {
		ttl = 0
	}
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Memory) expired(e entry, now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.stored) > c.ttl
}

// Get returns the value for key if present and not expired. Expired entries
// are evicted.
func (c *Memory) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if now := c.now(); c.expired(e, now) {
		return c.evict(key, now)
	}
	return e.value, true
}

// evict removes key if it is still expired under the write lock. A value
// stored since the read is returned instead.
func (c *Memory) evict(key string, now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.expired(e, now) {
		delete(c.entries, key)
		return "", false
	}
	return e.value, true
}

// Set stores value under key.
func (c *Memory) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, stored: c.now()}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Entries returns a copy of the live entries.
func (c *Memory) Entries(_ context.Context) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	out := make(map[string]string, len(c.entries))
	for k, e := range c.entries {
		if !c.expired(e, now) {
			out[k] = e.value
		}
	}
	return out, nil
}

var _ Enumerable = (*Memory)(nil)
