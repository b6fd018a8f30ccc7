package posts

import (
	"context"
	"time"
)

// Service is the boundary facade exposed to the transport layer.
// Every operation runs the lazy lifecycle sweep for its scope before acting,
// so callers always observe status consistent with wall-clock time.
type Service interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	UpdatePost(ctx context.Context, id string, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, id, requesterID string) error

	Like(ctx context.Context, postID, userID string) (int, error)
	Dislike(ctx context.Context, postID, userID string) (int, error)
	AddComment(ctx context.Context, postID, userID, text string) (*Comment, error)
	Retweet(ctx context.Context, postID, userID string) error
	RemoveRetweet(ctx context.Context, postID, userID string) error
	Bookmark(ctx context.Context, postID, userID string) error
	RemoveBookmark(ctx context.Context, postID, userID string) error
	ListBookmarks(ctx context.Context, userID string) ([]*Post, error)

	ListByTopic(ctx context.Context, topic string) ([]*Post, error)
	MostActiveInTopic(ctx context.Context, topic string) (*Post, error)
	ExpiredInTopic(ctx context.Context, topic string) ([]*Post, error)
}

// Repository is the data access interface for posts. The persistence engine
// must provide per-document atomic read-modify-write: AddReaction and
// AppendComment are single guarded statements, never read-then-write-whole-
// document, so concurrent engagement from different users is never lost.
type Repository interface {
	Create(ctx context.Context, post *Post) error

	// GetByID returns the post with its full reaction sets and comments.
	// Returns ErrPostNotFound if no such post exists.
	GetByID(ctx context.Context, id string) (*Post, error)

	// List returns up to limit posts in newest-first order, counts only.
	List(ctx context.Context, limit int) ([]*Post, error)

	// Update applies the non-nil fields of req and returns the updated post.
	// Returns ErrPostNotFound if no such post exists.
	Update(ctx context.Context, id string, req UpdatePostRequest) (*Post, error)

	// Delete removes the post row. Child reactions and comments go with it.
	// Returns ErrPostNotFound if no such post exists.
	Delete(ctx context.Context, id string) error

	// AddReaction atomically adds userID to the post's like or dislike set if
	// absent, guarded by Live status, and returns the resulting count for that
	// kind. Returns ErrPostExpired when the guard rejects the insert.
	AddReaction(ctx context.Context, postID, userID string, kind ReactionKind) (int, error)

	// AppendComment appends the comment, guarded by Live status.
	// Returns ErrPostExpired when the guard rejects the insert.
	AppendComment(ctx context.Context, postID string, comment *Comment) error

	// ExpireOverdue flips every Live post whose expiration time is at or
	// before now to Expired. Idempotent. Returns the flipped posts so the
	// caller can emit expiration events for them.
	ExpireOverdue(ctx context.Context, now time.Time) ([]ExpiredPost, error)

	// ExpirePostIfOverdue is the per-post variant of ExpireOverdue, used as
	// the pre-mutation re-check. Returns the flipped post, or nil when the
	// post is missing, already Expired, or not overdue.
	ExpirePostIfOverdue(ctx context.Context, id string, now time.Time) (*ExpiredPost, error)

	ListByTopic(ctx context.Context, topic string) ([]*Post, error)
	ListExpiredInTopic(ctx context.Context, topic string) ([]*Post, error)

	// MostActiveInTopic returns the Live post in the topic with the highest
	// combined like+dislike count, ties broken by earliest creation.
	// Returns ErrNoActivePosts when the topic has no Live posts.
	MostActiveInTopic(ctx context.Context, topic string) (*Post, error)

	AddRetweet(ctx context.Context, postID, userID string) error
	RemoveRetweet(ctx context.Context, postID, userID string) error
	AddBookmark(ctx context.Context, postID, userID string) error
	RemoveBookmark(ctx context.Context, postID, userID string) error
	ListBookmarked(ctx context.Context, userID string) ([]*Post, error)

	// DeleteReferencing removes every post whose replyTo or quoteTo points at
	// the given post id. Part of the best-effort delete cascade.
	DeleteReferencing(ctx context.Context, postID string) (int64, error)

	// RemoveBookmarksFor removes all bookmarks referencing the given post.
	RemoveBookmarksFor(ctx context.Context, postID string) error

	// RemoveRetweetsFor pulls the given post id out of all retweet sets.
	RemoveRetweetsFor(ctx context.Context, postID string) error
}
