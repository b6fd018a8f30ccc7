package posts

import (
	"time"
)

// PostStatus is the lifecycle state of a post.
// The transition is one-way: Live -> Expired, never back.
type PostStatus string

const (
	StatusLive    PostStatus = "Live"
	StatusExpired PostStatus = "Expired"
)

// ReactionKind distinguishes the two engagement sets on a post.
// Likes and dislikes are independent sets; nothing prevents the same user
// from appearing in both.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Post is a user-authored, topic-tagged item with a bounded lifetime and
// aggregate engagement. Likes and Dislikes carry the full user-id sets on
// single-post reads; list queries populate only the denormalized counts.
type Post struct {
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	ExpirationTime *time.Time `json:"expirationTime,omitempty" db:"expiration_time"`
	Hashtag        *string    `json:"hashtag,omitempty" db:"hashtag"`
	Location       *string    `json:"location,omitempty" db:"location"`
	URL            *string    `json:"url,omitempty" db:"url"`
	ReplyTo        *string    `json:"replyTo,omitempty" db:"reply_to"`
	QuoteTo        *string    `json:"quoteTo,omitempty" db:"quote_to"`
	ID             string     `json:"id" db:"id"`
	Author         string     `json:"author" db:"author"`
	Title          string     `json:"title" db:"title"`
	Body           string     `json:"body" db:"body"`
	Topic          string     `json:"topic,omitempty" db:"topic"`
	Status         PostStatus `json:"status" db:"status"`
	Likes          []string   `json:"likes,omitempty"`
	Dislikes       []string   `json:"dislikes,omitempty"`
	Comments       []Comment  `json:"comments,omitempty"`
	LikeCount      int        `json:"likeCount" db:"like_count"`
	DislikeCount   int        `json:"dislikeCount" db:"dislike_count"`
	CommentCount   int        `json:"commentCount" db:"comment_count"`
}

// Expirable reports whether the post auto-expires at all.
func (p *Post) Expirable() bool {
	return p.ExpirationTime != nil
}

// Overdue reports whether the post's expiration time has passed at the
// given instant. Posts without an expiration time are never overdue.
func (p *Post) Overdue(now time.Time) bool {
	return p.ExpirationTime != nil && !p.ExpirationTime.After(now)
}

// Comment is an append-only entry attached to a post. Insertion order is
// preserved and comments are never edited after the fact.
type Comment struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ID        string    `json:"id" db:"id"`
	PostID    string    `json:"postId" db:"post_id"`
	Author    string    `json:"author" db:"author"`
	Text      string    `json:"text" db:"content"`
}

// CreatePostRequest is the input for creating a new post.
// Author is always derived from the authenticated user, never client-supplied.
type CreatePostRequest struct {
	ExpirationTime *time.Time `json:"expirationTime,omitempty"`
	Hashtag        *string    `json:"hashtag,omitempty"`
	Location       *string    `json:"location,omitempty"`
	URL            *string    `json:"url,omitempty"`
	ReplyTo        *string    `json:"replyTo,omitempty"`
	QuoteTo        *string    `json:"quoteTo,omitempty"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	Topic          string     `json:"topic,omitempty"`
	Author         string     `json:"-"`
}

// UpdatePostRequest carries the patchable fields of a post. Nil means
// "leave unchanged". Author, topic, status, and timestamps are immutable.
type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty"`
	Body     *string `json:"body,omitempty"`
	Hashtag  *string `json:"hashtag,omitempty"`
	Location *string `json:"location,omitempty"`
	URL      *string `json:"url,omitempty"`
}

// Empty reports whether the update contains no changes at all.
func (r UpdatePostRequest) Empty() bool {
	return r.Title == nil && r.Body == nil && r.Hashtag == nil &&
		r.Location == nil && r.URL == nil
}
