package redisfeed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher emits change events onto the shared channel, notifying every
// subscribed instance that its session cache is stale.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher builds publisher.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

type changeEvent struct {
	Event      string    `json:"event"`
	SessionID  int64     `json:"session_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publish sends one event. Failures are the caller's to log; delivery is not
// guaranteed and no listener treats the feed as a source of truth.
func (p *Publisher) Publish(ctx context.Context, event string, sessionID int64) error {
	payload, err := json.Marshal(changeEvent{
		Event:      event,
		SessionID:  sessionID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}
