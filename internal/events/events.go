// Package events publishes domain events to Redis channels for the
// Gateway (SSE forwarding) and the notification service (email delivery).
//
// Publishing is best effort: callers log a failed publish and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel names. Each is also the event's "type" field.
const (
	JobPosted                = "EVENT_JOB_POSTED"
	SavedSearchMatch         = "EVENT_SAVED_SEARCH_MATCH"
	ApplicationCreated       = "EVENT_APPLICATION_CREATED"
	ApplicationStatusChanged = "EVENT_APPLICATION_STATUS_CHANGED"
)

// Publisher sends an event payload on a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload map[string]string) error
}

// RedisPublisher publishes JSON payloads with Redis PUBLISH.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a Publisher backed by rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish adds "type" and "at" to payload and publishes it on channel.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload map[string]string) error {
	body, err := Encode(channel, payload, time.Now())
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

// Encode renders the wire form of an event.
func Encode(channel string, payload map[string]string, at time.Time) ([]byte, error) {
	msg := make(map[string]string, len(payload)+2)
	for k, v := range payload {
		msg[k] = v
	}
	msg["type"] = channel
	msg["at"] = at.UTC().Format(time.RFC3339)
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", channel, err)
	}
	return body, nil
}

// PublishBestEffort publishes and logs any failure at Warn.
func PublishBestEffort(ctx context.Context, p Publisher, channel string, payload map[string]string) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, channel, payload); err != nil {
		slog.Warn("event publish failed", "channel", channel, "err", err)
	}
}

// Discard drops every event. Used by tools that run without Redis.
type Discard struct{}

func (Discard) Publish(context.Context, string, map[string]string) error { return nil }
