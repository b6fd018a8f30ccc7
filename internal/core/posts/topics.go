package posts

import (
	"context"
)

// TopicAggregator computes read-only cross-post views scoped to a topic.
type TopicAggregator struct {
	repo Repository
}

// NewTopicAggregator creates a topic aggregator over the given repository
func NewTopicAggregator(repo Repository) *TopicAggregator {
	return &TopicAggregator{repo: repo}
}

// ListByTopic returns all posts tagged with the topic, Live and Expired
// alike, in stable storage order.
func (a *TopicAggregator) ListByTopic(ctx context.Context, topic string) ([]*Post, error) {
	return a.repo.ListByTopic(ctx, topic)
}

// MostActiveInTopic returns the Live post in the topic with the highest
// combined like+dislike count. Ties break to the earliest-created post, so
// the result is deterministic even when raw counts do not disambiguate.
// Returns ErrNoActivePosts when the topic has no Live posts.
func (a *TopicAggregator) MostActiveInTopic(ctx context.Context, topic string) (*Post, error) {
	return a.repo.MostActiveInTopic(ctx, topic)
}

// ExpiredInTopic returns all Expired posts tagged with the topic.
func (a *TopicAggregator) ExpiredInTopic(ctx context.Context, topic string) ([]*Post, error) {
	return a.repo.ListExpiredInTopic(ctx, topic)
}
