package finance

import (
	"sync"
	"time"
)

type chartCacheEntry struct {
	createdAt time.Time
	image     []byte
}

// ChartCache keeps rendered images for a short while. Safe for concurrent use.
type ChartCache struct {
	ttl time.Duration
	mu  sync.Mutex
	m   map[string]chartCacheEntry
	now func() time.Time
}

func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{ttl: ttl, m: map[string]chartCacheEntry{}, now: time.Now}
}

// Get returns a copy of a cached image that has not expired.
func (c *ChartCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.m[key]; ok {
		if c.now().Before(entry.createdAt.Add(c.ttl)) {
			img := make([]byte, len(entry.image))
			copy(img, entry.image)
			return img, true
		}
		delete(c.m, key)
	}
	return nil, false
}

func (c *ChartCache) Set(key string, img []byte) {
	c.mu.Lock()
	c.m[key] = chartCacheEntry{createdAt: c.now(), image: img}
	c.mu.Unlock()
}
