// Package broadcast publishes match event timelines to observers over a
// Redis stream.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

// StreamKey is the Redis stream key match timelines are published to.
const StreamKey = "match:events"

// EventEnvelope is the payload written per simulated match.
type EventEnvelope struct {
	MatchID     string              `json:"match_id"`
	Events      []domain.MatchEvent `json:"events"`
	PublishedAt time.Time           `json:"published_at"`
}

// StreamPublisher writes match timelines to a Redis stream for real-time
// observers.
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher returns a Redis stream publisher.
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{client: client}
}

// Publish adds one match's event timeline to the stream.
func (p *StreamPublisher) Publish(ctx context.Context, matchID string, events []domain.MatchEvent) error {
	body, err := json.Marshal(EventEnvelope{
		MatchID:     matchID,
		Events:      events,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		Values: map[string]interface{}{
			"match_id":    matchID,
			"payload":     string(body),
			"event_count": len(events),
		},
	}).Err(); err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

// NopPublisher drops every publish. It stands in when no Redis address is
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []domain.MatchEvent) error {
	return nil
}
