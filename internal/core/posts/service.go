package posts

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"piazza/internal/events"
)

// listCap bounds the unfiltered post listing. There is no pagination cursor:
// the listing is a fixed-size window of the newest posts.
const listCap = 10

// postService composes the lifecycle manager, engagement processor, and
// topic aggregator behind the Service facade. Every operation runs the lazy
// sweep for its scope before delegating, so status is always consistent with
// wall-clock time by the time any further logic runs.
type postService struct {
	repo       Repository
	lifecycle  *LifecycleManager
	engagement *EngagementProcessor
	topics     *TopicAggregator
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates the post service facade. A nil publisher disables
// lifecycle events; a nil logger falls back to slog.Default().
func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &postService{
		repo:       repo,
		lifecycle:  NewLifecycleManager(repo, logger),
		engagement: NewEngagementProcessor(repo, logger),
		topics:     NewTopicAggregator(repo),
		publisher:  publisher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// sweep runs the global lazy sweep and reports the clock reading it used.
// Sweep failures are logged, not surfaced: the per-post guards still hold.
// Every post the sweep flips gets a post.expired event.
func (s *postService) sweep(ctx context.Context) time.Time {
	now := s.now()
	expired, err := s.lifecycle.Sweep(ctx, now)
	if err != nil {
		s.logger.Warn("lazy sweep failed", "error", err)
		return now
	}
	for _, p := range expired {
		s.publishExpired(ctx, p, now)
	}
	return now
}

// sweepPost runs the per-post stale-Live re-check before a mutation
func (s *postService) sweepPost(ctx context.Context, id string) time.Time {
	now := s.now()
	flipped, err := s.lifecycle.SweepPost(ctx, id, now)
	if err != nil {
		s.logger.Warn("per-post sweep failed", "post", id, "error", err)
		return now
	}
	if flipped != nil {
		s.publishExpired(ctx, *flipped, now)
	}
	return now
}

func (s *postService) publishExpired(ctx context.Context, p ExpiredPost, now time.Time) {
	s.publish(ctx, events.PostEvent{
		Type:       events.PostExpired,
		PostID:     p.ID,
		Author:     p.Author,
		Topic:      p.Topic,
		OccurredAt: now,
	})
}

func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	s.sweep(ctx)

	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	now := s.now()
	post := &Post{
		ID:             uuid.NewString(),
		Author:         req.Author,
		Title:          strings.TrimSpace(req.Title),
		Body:           req.Body,
		Topic:          strings.TrimSpace(req.Topic),
		Hashtag:        req.Hashtag,
		Location:       req.Location,
		URL:            req.URL,
		ReplyTo:        req.ReplyTo,
		QuoteTo:        req.QuoteTo,
		Status:         StatusLive,
		ExpirationTime: req.ExpirationTime,
		CreatedAt:      now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.publish(ctx, events.PostEvent{
		Type:       events.PostCreated,
		PostID:     post.ID,
		Author:     post.Author,
		Topic:      post.Topic,
		OccurredAt: now,
	})
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id string) (*Post, error) {
	s.sweepPost(ctx, id)
	return s.repo.GetByID(ctx, id)
}

func (s *postService) ListPosts(ctx context.Context) ([]*Post, error) {
	s.sweep(ctx)
	return s.repo.List(ctx, listCap)
}

func (s *postService) UpdatePost(ctx context.Context, id string, req UpdatePostRequest) (*Post, error) {
	s.sweepPost(ctx, id)

	if req.Empty() {
		return nil, NewValidationError("body", "no updatable fields provided")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, NewValidationError("title", "title must not be empty")
	}
	if req.Body != nil && strings.TrimSpace(*req.Body) == "" {
		return nil, NewValidationError("body", "body must not be empty")
	}
	return s.repo.Update(ctx, id, req)
}

func (s *postService) DeletePost(ctx context.Context, id, requesterID string) error {
	now := s.sweepPost(ctx, id)
	post, err := s.engagement.DeletePost(ctx, id, requesterID)
	if err != nil {
		return err
	}
	s.publish(ctx, events.PostEvent{
		Type:       events.PostDeleted,
		PostID:     id,
		Author:     post.Author,
		Topic:      post.Topic,
		OccurredAt: now,
	})
	return nil
}

func (s *postService) Like(ctx context.Context, postID, userID string) (int, error) {
	s.sweepPost(ctx, postID)
	return s.engagement.Like(ctx, postID, userID)
}

func (s *postService) Dislike(ctx context.Context, postID, userID string) (int, error) {
	s.sweepPost(ctx, postID)
	return s.engagement.Dislike(ctx, postID, userID)
}

func (s *postService) AddComment(ctx context.Context, postID, userID, text string) (*Comment, error) {
	now := s.sweepPost(ctx, postID)
	return s.engagement.AddComment(ctx, postID, userID, text, now)
}

func (s *postService) Retweet(ctx context.Context, postID, userID string) error {
	s.sweepPost(ctx, postID)
	return s.engagement.Retweet(ctx, postID, userID)
}

func (s *postService) RemoveRetweet(ctx context.Context, postID, userID string) error {
	s.sweepPost(ctx, postID)
	return s.engagement.RemoveRetweet(ctx, postID, userID)
}

func (s *postService) Bookmark(ctx context.Context, postID, userID string) error {
	s.sweepPost(ctx, postID)
	return s.engagement.Bookmark(ctx, postID, userID)
}

func (s *postService) RemoveBookmark(ctx context.Context, postID, userID string) error {
	s.sweepPost(ctx, postID)
	return s.engagement.RemoveBookmark(ctx, postID, userID)
}

func (s *postService) ListBookmarks(ctx context.Context, userID string) ([]*Post, error) {
	s.sweep(ctx)
	return s.repo.ListBookmarked(ctx, userID)
}

func (s *postService) ListByTopic(ctx context.Context, topic string) ([]*Post, error) {
	s.sweep(ctx)
	return s.topics.ListByTopic(ctx, topic)
}

func (s *postService) MostActiveInTopic(ctx context.Context, topic string) (*Post, error) {
	s.sweep(ctx)
	return s.topics.MostActiveInTopic(ctx, topic)
}

func (s *postService) ExpiredInTopic(ctx context.Context, topic string) ([]*Post, error) {
	s.sweep(ctx)
	return s.topics.ExpiredInTopic(ctx, topic)
}

// publish emits a lifecycle event, logging failures instead of surfacing
// them: the stream is advisory, the request already succeeded.
func (s *postService) publish(ctx context.Context, event events.PostEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish lifecycle event",
			"type", event.Type, "post", event.PostID, "error", err)
	}
}

func validateCreateRequest(req CreatePostRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		return NewValidationError("body", "body is required")
	}
	if req.Author == "" {
		return NewValidationError("author", "author is required")
	}
	return nil
}
