package enrichment

import (
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value   Localized
	expires time.Time
}

// memoryCache is the in-process translation tier.
type memoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]memoryEntry
	now     func() time.Time
}

func newMemoryCache(ttl time.Duration, max int) *memoryCache {
	return &memoryCache{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *memoryCache) get(key string) (Localized, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Localized{}, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return Localized{}, false
	}
	return e.value, true
}

func (c *memoryCache) set(key string, v Localized) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if len(c.entries) >= c.max {
		c.evictLocked(now)
	}
	c.entries[key] = memoryEntry{value: v, expires: now.Add(c.ttl)}
}

// evictLocked drops expired entries, then the one closest to expiry.
func (c *memoryCache) evictLocked(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
			continue
		}
		if oldestKey == "" || e.expires.Before(oldest) {
			oldestKey, oldest = k, e.expires
		}
	}
	if len(c.entries) >= c.max && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *memoryCache) deletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}
