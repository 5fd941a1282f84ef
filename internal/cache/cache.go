// Package cache provides an in-memory TTL cache with ETag support.
//
// Writes to the underlying data bump the cache generation. A reader captures
// the generation before querying and passes it to Set, so a response built
// from pre-write data is dropped instead of being cached.
package cache

import (
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	TTLList   = 30 * time.Second // Paginated list and search results
	TTLDetail = 5 * time.Minute  // Single tournament

	evictInterval = 5 * time.Minute
)

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	mu            sync.RWMutex
	entries       map[string]entry
	enabled       bool
	clock         clockwork.Clock
	generation    uint64
	invalidations uint64
	done          chan struct{}
	closeOnce     sync.Once
}

// New creates a new cache. Pass enabled=false to create a no-op cache.
func New(enabled bool, clock clockwork.Clock) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	c := &Cache{
		entries: make(map[string]entry),
		enabled: enabled,
		clock:   clock,
		done:    make(chan struct{}),
	}
	if enabled {
		go c.evictLoop()
	}
	return c
}

// Close stops the background eviction loop.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Generation returns the current generation for a later Set.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || c.clock.Now().After(e.expiresAt) {
		return nil, "", false
	}
	return e.data, e.etag, true
}

// Set stores a value with a TTL if no invalidation happened since gen was
// read. The ETag is returned either way.
func (c *Cache) Set(key string, data []byte, ttl time.Duration, gen uint64) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return etag
	}
	c.entries[key] = entry{
		data:      data,
		etag:      etag,
		expiresAt: c.clock.Now().Add(ttl),
	}
	return etag
}

// Invalidate drops every entry and starts a new generation.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.invalidations++
	clear(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := c.clock.Now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return map[string]interface{}{
		"enabled":       c.enabled,
		"total_keys":    len(c.entries),
		"active_keys":   active,
		"expired_keys":  len(c.entries) - active,
		"generation":    c.generation,
		"invalidations": c.invalidations,
	}
}

// evictLoop periodically removes expired entries.
func (c *Cache) evictLoop() {
	ticker := c.clock.NewTicker(evictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.Chan():
			c.evict()
		case <-c.done:
			return
		}
	}
}

func (c *Cache) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if an If-None-Match header matches the current ETag.
// The header may list several tags; comparison is weak, so a strong tag
// matches its weak form.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}
