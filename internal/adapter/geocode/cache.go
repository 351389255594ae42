package geocode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Labeler resolves a coordinate to a place label.
type Labeler interface {
	ReverseLabel(ctx context.Context, lat, lon float64) (string, error)
}

// CachedLabeler wraps a Labeler with an in-memory LRU cache whose entries
// expire after a TTL. The clock is injected so expiry is testable; the TTL
// lives on the cache value itself rather than in any process-global state.
type CachedLabeler struct {
	inner Labeler
	cache *ttlCache
}

// NewCachedLabeler creates a cache decorator around a labeler.
func NewCachedLabeler(inner Labeler, maxEntries int, ttl time.Duration, clk clockwork.Clock) *CachedLabeler {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &CachedLabeler{
		inner: inner,
		cache: newTTLCache(maxEntries, ttl, clk),
	}
}

func (c *CachedLabeler) ReverseLabel(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("%.6f,%.6f", lat, lon)
	if label, ok := c.cache.get(key); ok {
		return label, nil
	}
	label, err := c.inner.ReverseLabel(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if label != "" {
		c.cache.put(key, label)
	}
	return label, nil
}

// ttlCache is a thread-safe LRU cache with per-entry expiry.
type ttlCache struct {
	maxEntries int
	ttl        time.Duration
	clk        clockwork.Clock

	mu      sync.Mutex
	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used
}

type entry struct {
	key       string
	value     string
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newTTLCache(maxEntries int, ttl time.Duration, clk clockwork.Clock) *ttlCache {
	return &ttlCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clk:        clk,
		entries:    make(map[string]*entry),
	}
}

func (c *ttlCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.clk.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *ttlCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clk.Now().Add(c.ttl)

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *ttlCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *ttlCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *ttlCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *ttlCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
