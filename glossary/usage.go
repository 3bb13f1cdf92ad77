package glossary

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// UsageRecorder counts how often glossary entries are matched. Recording is
// bookkeeping: callers treat failures as non-fatal and never let them change
// the matches they return.
type UsageRecorder interface {
	Record(ctx context.Context, entryIDs []string) error
}

// MemoryUsage is a thread-safe in-process UsageRecorder.
type MemoryUsage struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMemoryUsage creates an empty in-memory recorder.
func NewMemoryUsage() *MemoryUsage {
	return &MemoryUsage{counts: make(map[string]int64)}
}

// Record increments the counter of each entry id.
func (u *MemoryUsage) Record(_ context.Context, entryIDs []string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, id := range entryIDs {
		u.counts[id]++
	}
	return nil
}

// Count returns the recorded usage of an entry.
func (u *MemoryUsage) Count(entryID string) int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.counts[entryID]
}

// RedisUsage keeps usage counters in a Redis hash, one field per entry id.
type RedisUsage struct {
	client *redis.Client
	key    string
}

// NewRedisUsage creates a recorder writing to the hash at key
// (default "gotlqa:glossary:usage").
func NewRedisUsage(client *redis.Client, key string) *RedisUsage {
	if key == "" {
		key = "gotlqa:glossary:usage"
	}
	return &RedisUsage{client: client, key: key}
}

// Record increments the hash field of each entry id.
func (u *RedisUsage) Record(ctx context.Context, entryIDs []string) error {
	for _, id := range entryIDs {
		if err := u.client.HIncrBy(ctx, u.key, id, 1).Err(); err != nil {
			return fmt.Errorf("incrementing usage of %s: %w", id, err)
		}
	}
	return nil
}

// Count returns the stored usage of an entry; a missing field counts as 0.
func (u *RedisUsage) Count(ctx context.Context, entryID string) (int64, error) {
	n, err := u.client.HGet(ctx, u.key, entryID).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

var (
	_ UsageRecorder = (*MemoryUsage)(nil)
	_ UsageRecorder = (*RedisUsage)(nil)
)
