package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EngagementProcessor applies user-initiated mutations to a single post,
// enforcing per-action rules. Callers are expected to have swept the target
// post first; the repository's Live guards re-enforce the expiry rule at the
// storage layer regardless.
type EngagementProcessor struct {
	repo   Repository
	logger *slog.Logger
}

// NewEngagementProcessor creates an engagement processor over the given repository
func NewEngagementProcessor(repo Repository, logger *slog.Logger) *EngagementProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &EngagementProcessor{repo: repo, logger: logger}
}

// Like adds userID to the post's like set if absent and returns the updated
// like count. Liking twice has the same effect as once. Authors may not like
// their own posts.
func (p *EngagementProcessor) Like(ctx context.Context, postID, userID string) (int, error) {
	post, err := p.repo.GetByID(ctx, postID)
	if err != nil {
		return 0, err
	}
	if post.Status == StatusExpired {
		return 0, ErrPostExpired
	}
	if post.Author == userID {
		return 0, ErrSelfAction
	}
	return p.repo.AddReaction(ctx, postID, userID, ReactionLike)
}

// Dislike adds userID to the post's dislike set if absent and returns the
// updated dislike count. Unlike Like there is no self-action restriction;
// authors may dislike their own posts.
func (p *EngagementProcessor) Dislike(ctx context.Context, postID, userID string) (int, error) {
	post, err := p.repo.GetByID(ctx, postID)
	if err != nil {
		return 0, err
	}
	if post.Status == StatusExpired {
		return 0, ErrPostExpired
	}
	return p.repo.AddReaction(ctx, postID, userID, ReactionDislike)
}

// AddComment appends a comment to the post and returns it. Comments are
// append-only: insertion order is preserved and entries are never edited.
func (p *EngagementProcessor) AddComment(ctx context.Context, postID, userID, text string, now time.Time) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, NewValidationError("text", "comment text is required")
	}

	post, err := p.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == StatusExpired {
		return nil, ErrPostExpired
	}

	comment := &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		Author:    userID,
		Text:      text,
		CreatedAt: now,
	}
	if err := p.repo.AppendComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Retweet adds the post to the user's retweet set. Idempotent, rejected on
// Expired posts like the other engagement actions.
func (p *EngagementProcessor) Retweet(ctx context.Context, postID, userID string) error {
	post, err := p.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Status == StatusExpired {
		return ErrPostExpired
	}
	return p.repo.AddRetweet(ctx, postID, userID)
}

// RemoveRetweet pulls the post from the user's retweet set. Removal is
// allowed on Expired posts: only growth of engagement is frozen.
func (p *EngagementProcessor) RemoveRetweet(ctx context.Context, postID, userID string) error {
	if _, err := p.repo.GetByID(ctx, postID); err != nil {
		return err
	}
	return p.repo.RemoveRetweet(ctx, postID, userID)
}

// Bookmark saves the post for the user. Bookmarks are personal references,
// not engagement, so Expired posts may still be bookmarked.
func (p *EngagementProcessor) Bookmark(ctx context.Context, postID, userID string) error {
	if _, err := p.repo.GetByID(ctx, postID); err != nil {
		return err
	}
	return p.repo.AddBookmark(ctx, postID, userID)
}

// RemoveBookmark drops the user's bookmark for the post
func (p *EngagementProcessor) RemoveBookmark(ctx context.Context, postID, userID string) error {
	if _, err := p.repo.GetByID(ctx, postID); err != nil {
		return err
	}
	return p.repo.RemoveBookmark(ctx, postID, userID)
}

// DeletePost removes the post and cleans up everything that points at it,
// returning the post as it was before deletion. Only the author may delete.
// The primary delete commits first; the cascade (replies/quotes, bookmarks,
// retweet back-references) is best-effort cleanup - a failed cascade step is
// logged but never resurrects the post.
func (p *EngagementProcessor) DeletePost(ctx context.Context, postID, requesterID string) (*Post, error) {
	post, err := p.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Author != requesterID {
		return nil, ErrNotAuthor
	}

	if err := p.repo.Delete(ctx, postID); err != nil {
		return nil, fmt.Errorf("failed to delete post %s: %w", postID, err)
	}

	if removed, err := p.repo.DeleteReferencing(ctx, postID); err != nil {
		p.logger.Warn("cascade failed to delete referencing posts",
			"post", postID, "error", err)
	} else if removed > 0 {
		p.logger.Info("cascade deleted referencing posts",
			"post", postID, "count", removed)
	}
	if err := p.repo.RemoveBookmarksFor(ctx, postID); err != nil {
		p.logger.Warn("cascade failed to remove bookmarks",
			"post", postID, "error", err)
	}
	if err := p.repo.RemoveRetweetsFor(ctx, postID); err != nil {
		p.logger.Warn("cascade failed to remove retweet references",
			"post", postID, "error", err)
	}

	return post, nil
}
