package videos

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	metadata Metadata
	expires  time.Time
}

// CachingProvider remembers successful lookups for a fixed TTL. Links that resolve to the
// same hosted video share one entry; failures are not cached. Concurrent misses for one
// video share a single upstream lookup.
type CachingProvider struct {
	base Provider
	ttl  time.Duration
	now  func() time.Time

	inflight singleflight.Group

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachingProvider wraps base. A non-positive ttl selects one hour.
func NewCachingProvider(base Provider, ttl time.Duration) *CachingProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachingProvider{
		base:  base,
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cacheEntry),
	}
}

// Lookup implements Provider.
func (c *CachingProvider) Lookup(ctx context.Context, url string) (Metadata, error) {
	if c == nil || c.base == nil {
		return Metadata{}, ErrProviderUnavailable
	}

	key := cacheKey(url)
	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.metadata, nil
	}

	v, err, _ := c.inflight.Do(key, func() (any, error) {
		metadata, err := c.base.Lookup(ctx, url)
		if err != nil {
			return Metadata{}, err
		}
		c.mu.Lock()
		c.evictExpired(now)
		c.items[key] = cacheEntry{metadata: metadata, expires: now.Add(c.ttl)}
		c.mu.Unlock()
		return metadata, nil
	})
	if err != nil {
		return Metadata{}, err
	}
	return v.(Metadata), nil
}

func (c *CachingProvider) evictExpired(now time.Time) {
	for key, entry := range c.items {
		if !now.Before(entry.expires) {
			delete(c.items, key)
		}
	}
}
