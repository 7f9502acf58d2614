package cache

import (
	"context"
	"sync"
	"time"

	"github.com/skywatch/apod-gateway/internal/apod/domain"
)

type memoryEntry struct {
	picture   *domain.Picture
	fetchedAt time.Time
	ttl       time.Duration
}

// MemoryCache is the default in-process cache backend. Entries are
// overwritten on refresh but never purged; stale entries simply stop
// being returned. The clock is injected so freshness is testable.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.Picture, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if c.now().Sub(entry.fetchedAt) >= entry.ttl {
		return nil, nil
	}

	return entry.picture, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string,
	picture *domain.Picture, ttl time.Duration) error {

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		picture:   picture,
		fetchedAt: c.now(),
		ttl:       ttl,
	}

	return nil
}

var _ Cache = (*MemoryCache)(nil)
