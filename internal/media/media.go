// Package media answers whether a product image still exists in the object
// store so galleries can substitute a placeholder for missing files.
package media

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Checker reports whether an image URL resolves to a stored object.
// Implementations answer true when they cannot tell.
type Checker interface {
	Exists(ctx context.Context, url string) bool
}

// nopChecker assumes every image exists.
type nopChecker struct{}

// NewNopChecker returns a checker that never reports a missing image.
func NewNopChecker() Checker {
	return nopChecker{}
}

func (nopChecker) Exists(ctx context.Context, url string) bool {
	return true
}

type cacheEntry struct {
	exists  bool
	checked time.Time
}

// cachingChecker remembers answers from another checker for a fixed period.
type cachingChecker struct {
	next       Checker
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	logger  zerolog.Logger
}

// NewCachingChecker wraps next with a bounded answer cache.
func NewCachingChecker(next Checker, ttl time.Duration, maxEntries int, logger zerolog.Logger) Checker {
	return &cachingChecker{
		next:       next,
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]cacheEntry),
		logger:     logger.With().Str("component", "media-cache").Logger(),
	}
}

func (c *cachingChecker) Exists(ctx context.Context, url string) bool {
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[url]
	c.mu.Unlock()
	if ok && now.Sub(entry.checked) < c.ttl {
		return entry.exists
	}

	exists := c.next.Exists(ctx, url)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		c.evictExpired(now)
	}
	if len(c.entries) >= c.maxEntries {
		c.logger.Debug().Int("entries", len(c.entries)).Msg("media cache full, resetting")
		clear(c.entries)
	}
	c.entries[url] = cacheEntry{exists: exists, checked: now}
	return exists
}

func (c *cachingChecker) evictExpired(now time.Time) {
	for url, entry := range c.entries {
		if now.Sub(entry.checked) >= c.ttl {
			delete(c.entries, url)
		}
	}
}
