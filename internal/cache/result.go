// Package cache holds the two in-memory tables that surround the engine: a
// TTL-bounded memo of completed simulation results and a live table of
// in-progress match snapshots.
package cache

import (
	"sync"
	"time"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

type resultEntry struct {
	result   *domain.SimulationResult
	storedAt time.Time
}

// ResultCache memoizes completed simulation results per match for a fixed
// TTL. Expired entries are evicted lazily on the next read; there is no
// background sweeper.
type ResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]resultEntry
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[string]resultEntry),
	}
}

// Get returns the cached result for a match. An entry older than the TTL is
// deleted and reported as absent.
func (c *ResultCache) Get(matchID string) (*domain.SimulationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[matchID]
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) > c.ttl {
		delete(c.entries, matchID)
		return nil, false
	}
	return e.result, true
}

// Put stores a result, replacing any prior entry for the match.
func (c *ResultCache) Put(matchID string, res *domain.SimulationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[matchID] = resultEntry{result: res, storedAt: time.Now()}
}

// Clear removes one match's entry.
func (c *ResultCache) Clear(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, matchID)
}

// ClearAll empties the cache.
func (c *ResultCache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]resultEntry)
}

// Stats returns cache statistics.
func (c *ResultCache) Stats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := 0
	for _, e := range c.entries {
		if time.Since(e.storedAt) <= c.ttl {
			active++
		}
	}
	return map[string]interface{}{
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
		"ttl_seconds":  int(c.ttl.Seconds()),
	}
}
