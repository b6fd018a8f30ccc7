// Package events publishes post lifecycle events for downstream consumers
// (feed builders, search indexers). Publishing is strictly best-effort:
// a broker outage never fails the request that produced the event.
package events

import (
	"context"
	"time"
)

// Event types emitted on the post lifecycle stream
const (
	PostCreated = "post.created"
	PostDeleted = "post.deleted"
	PostExpired = "post.expired"
)

// PostEvent is the wire payload for a lifecycle event
type PostEvent struct {
	OccurredAt time.Time `json:"occurredAt"`
	Type       string    `json:"type"`
	PostID     string    `json:"postId"`
	Author     string    `json:"author,omitempty"`
	Topic      string    `json:"topic,omitempty"`
}

// Publisher emits post lifecycle events
type Publisher interface {
	Publish(ctx context.Context, event PostEvent) error
	Close() error
}

// NopPublisher discards all events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, PostEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
