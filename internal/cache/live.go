package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jimmy058910/replitballgame-sub001/internal/constants"
	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

// MatchGetter is the slice of the store the live cache needs to rebuild a
// snapshot from the authoritative match record.
type MatchGetter interface {
	Get(ctx context.Context, matchID string) (*domain.MatchRecord, error)
}

// LiveStateUpdate is a partial update to a live snapshot. Nil fields are left
// untouched; events are appended to the bounded recent-event log.
type LiveStateUpdate struct {
	Status     *string            `json:"status,omitempty"`
	Minute     *int               `json:"minute,omitempty"`
	HomeScore  *int               `json:"home_score,omitempty"`
	AwayScore  *int               `json:"away_score,omitempty"`
	Possession *domain.SideTally   `json:"possession,omitempty"`
	Shots      *domain.SideTally   `json:"shots,omitempty"`
	Tackles    *domain.SideTally   `json:"tackles,omitempty"`
	Events     []domain.MatchEvent `json:"events,omitempty"`
}

// LiveStateCache is the in-memory table of in-progress match snapshots served
// to pollers. Entries have no TTL; they are overwritten by Sync and removed
// by Clear. It answers "what is happening right now", independent of the
// result cache's "what was the final outcome".
type LiveStateCache struct {
	mu      sync.RWMutex
	matches MatchGetter
	states  map[string]domain.LiveMatchState
}

func NewLiveStateCache(matches MatchGetter) *LiveStateCache {
	return &LiveStateCache{
		matches: matches,
		states:  make(map[string]domain.LiveMatchState),
	}
}

// Sync rebuilds a match's snapshot from the authoritative record, overwriting
// any prior entry. The store's error passes through when the match is missing.
func (c *LiveStateCache) Sync(ctx context.Context, matchID string) (*domain.LiveMatchState, error) {
	match, err := c.matches.Get(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("syncing live state for match %s: %w", matchID, err)
	}

	minute := 0
	if match.Status == domain.StatusCompleted {
		minute = constants.MatchDurationMinutes
	}
	state := domain.LiveMatchState{
		MatchID:    match.ID,
		Status:     match.Status,
		Minute:     minute,
		HomeScore:  match.HomeScore,
		AwayScore:  match.AwayScore,
		LastSync:   time.Now().UTC(),
		LastUpdate: time.Now().UTC(),
	}

	c.mu.Lock()
	c.states[matchID] = state
	c.mu.Unlock()

	return &state, nil
}

// Get returns a copy of the snapshot for a match, if one exists.
func (c *LiveStateCache) Get(matchID string) (*domain.LiveMatchState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state, ok := c.states[matchID]
	if !ok {
		return nil, false
	}
	return &state, true
}

// Update merges a partial update into an existing snapshot and stamps
// LastUpdate. It reports false when the match has no snapshot to merge into.
func (c *LiveStateCache) Update(matchID string, update LiveStateUpdate) (*domain.LiveMatchState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[matchID]
	if !ok {
		return nil, false
	}

	if update.Status != nil {
		state.Status = *update.Status
	}
	if update.Minute != nil {
		state.Minute = *update.Minute
	}
	if update.HomeScore != nil {
		state.HomeScore = *update.HomeScore
	}
	if update.AwayScore != nil {
		state.AwayScore = *update.AwayScore
	}
	if update.Possession != nil {
		state.Possession = *update.Possession
	}
	if update.Shots != nil {
		state.Shots = *update.Shots
	}
	if update.Tackles != nil {
		state.Tackles = *update.Tackles
	}
	if len(update.Events) > 0 {
		state.RecentEvents = appendBounded(state.RecentEvents, update.Events, constants.LiveRecentEventLimit)
	}
	state.LastUpdate = time.Now().UTC()

	c.states[matchID] = state
	return &state, true
}

// Clear removes a match's snapshot, typically once the match completes.
func (c *LiveStateCache) Clear(matchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, matchID)
}

// ListActive returns every tracked snapshot, sorted by match ID for stable
// output.
func (c *LiveStateCache) ListActive() []domain.LiveMatchState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	states := make([]domain.LiveMatchState, 0, len(c.states))
	for _, state := range c.states {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].MatchID < states[j].MatchID
	})
	return states
}

// appendBounded joins two event lists into a fresh slice keeping only the
// last limit entries. A fresh slice avoids sharing backing arrays with
// snapshots already handed to callers.
func appendBounded(existing, incoming []domain.MatchEvent, limit int) []domain.MatchEvent {
	merged := make([]domain.MatchEvent, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	merged = append(merged, incoming...)
	if len(merged) > limit {
		merged = merged[len(merged)-limit:]
	}
	return merged
}
