package posts

import (
	"context"
	"errors"
	"sort"
	"time"
)

// mockPostRepo is an in-memory implementation of Repository for unit tests.
// It honors the same guards as the Postgres implementation: reactions and
// comments are rejected once a post is Expired, and set-adds are idempotent.
type mockPostRepo struct {
	posts     map[string]*Post
	order     []string
	bookmarks map[string]map[string]bool // userID -> postID set
	retweets  map[string]map[string]bool // userID -> postID set

	// Failure injection for cascade and sweep paths
	deleteReferencingErr error
	removeBookmarksErr   error
	expireOverdueErr     error
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		posts:     make(map[string]*Post),
		bookmarks: make(map[string]map[string]bool),
		retweets:  make(map[string]map[string]bool),
	}
}

func (m *mockPostRepo) Create(ctx context.Context, post *Post) error {
	m.posts[post.ID] = post
	m.order = append(m.order, post.ID)
	return nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, id string) (*Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (m *mockPostRepo) List(ctx context.Context, limit int) ([]*Post, error) {
	var result []*Post
	for _, id := range m.order {
		if post, ok := m.posts[id]; ok {
			result = append(result, post)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockPostRepo) Update(ctx context.Context, id string, req UpdatePostRequest) (*Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Hashtag != nil {
		post.Hashtag = req.Hashtag
	}
	if req.Location != nil {
		post.Location = req.Location
	}
	if req.URL != nil {
		post.URL = req.URL
	}
	return post, nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) AddReaction(ctx context.Context, postID, userID string, kind ReactionKind) (int, error) {
	post, ok := m.posts[postID]
	if !ok {
		return 0, ErrPostNotFound
	}
	if post.Status != StatusLive {
		return 0, ErrPostExpired
	}
	set := &post.Likes
	if kind == ReactionDislike {
		set = &post.Dislikes
	}
	if !contains(*set, userID) {
		*set = append(*set, userID)
	}
	if kind == ReactionDislike {
		post.DislikeCount = len(post.Dislikes)
		return post.DislikeCount, nil
	}
	post.LikeCount = len(post.Likes)
	return post.LikeCount, nil
}

func (m *mockPostRepo) AppendComment(ctx context.Context, postID string, comment *Comment) error {
	post, ok := m.posts[postID]
	if !ok {
		return ErrPostNotFound
	}
	if post.Status != StatusLive {
		return ErrPostExpired
	}
	post.Comments = append(post.Comments, *comment)
	post.CommentCount = len(post.Comments)
	return nil
}

func (m *mockPostRepo) ExpireOverdue(ctx context.Context, now time.Time) ([]ExpiredPost, error) {
	if m.expireOverdueErr != nil {
		return nil, m.expireOverdueErr
	}
	var expired []ExpiredPost
	for _, id := range m.order {
		post, ok := m.posts[id]
		if ok && post.Status == StatusLive && post.Overdue(now) {
			post.Status = StatusExpired
			expired = append(expired, ExpiredPost{ID: post.ID, Author: post.Author, Topic: post.Topic})
		}
	}
	return expired, nil
}

func (m *mockPostRepo) ExpirePostIfOverdue(ctx context.Context, id string, now time.Time) (*ExpiredPost, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	if post.Status == StatusLive && post.Overdue(now) {
		post.Status = StatusExpired
		return &ExpiredPost{ID: post.ID, Author: post.Author, Topic: post.Topic}, nil
	}
	return nil, nil
}

func (m *mockPostRepo) ListByTopic(ctx context.Context, topic string) ([]*Post, error) {
	var result []*Post
	for _, id := range m.order {
		if post, ok := m.posts[id]; ok && post.Topic == topic {
			result = append(result, post)
		}
	}
	return result, nil
}

func (m *mockPostRepo) ListExpiredInTopic(ctx context.Context, topic string) ([]*Post, error) {
	var result []*Post
	for _, id := range m.order {
		if post, ok := m.posts[id]; ok && post.Topic == topic && post.Status == StatusExpired {
			result = append(result, post)
		}
	}
	return result, nil
}

func (m *mockPostRepo) MostActiveInTopic(ctx context.Context, topic string) (*Post, error) {
	var top *Post
	for _, id := range m.order {
		post, ok := m.posts[id]
		if !ok || post.Topic != topic || post.Status != StatusLive {
			continue
		}
		if top == nil {
			top = post
			continue
		}
		topCount := len(top.Likes) + len(top.Dislikes)
		count := len(post.Likes) + len(post.Dislikes)
		if count > topCount || (count == topCount && post.CreatedAt.Before(top.CreatedAt)) {
			top = post
		}
	}
	if top == nil {
		return nil, ErrNoActivePosts
	}
	return top, nil
}

func (m *mockPostRepo) AddRetweet(ctx context.Context, postID, userID string) error {
	if m.retweets[userID] == nil {
		m.retweets[userID] = make(map[string]bool)
	}
	m.retweets[userID][postID] = true
	return nil
}

func (m *mockPostRepo) RemoveRetweet(ctx context.Context, postID, userID string) error {
	delete(m.retweets[userID], postID)
	return nil
}

func (m *mockPostRepo) AddBookmark(ctx context.Context, postID, userID string) error {
	if m.bookmarks[userID] == nil {
		m.bookmarks[userID] = make(map[string]bool)
	}
	m.bookmarks[userID][postID] = true
	return nil
}

func (m *mockPostRepo) RemoveBookmark(ctx context.Context, postID, userID string) error {
	delete(m.bookmarks[userID], postID)
	return nil
}

func (m *mockPostRepo) ListBookmarked(ctx context.Context, userID string) ([]*Post, error) {
	var result []*Post
	for _, id := range m.order {
		if post, ok := m.posts[id]; ok && m.bookmarks[userID][id] {
			result = append(result, post)
		}
	}
	return result, nil
}

func (m *mockPostRepo) DeleteReferencing(ctx context.Context, postID string) (int64, error) {
	if m.deleteReferencingErr != nil {
		return 0, m.deleteReferencingErr
	}
	var removed int64
	for id, post := range m.posts {
		if (post.ReplyTo != nil && *post.ReplyTo == postID) ||
			(post.QuoteTo != nil && *post.QuoteTo == postID) {
			delete(m.posts, id)
			removed++
		}
	}
	return removed, nil
}

func (m *mockPostRepo) RemoveBookmarksFor(ctx context.Context, postID string) error {
	if m.removeBookmarksErr != nil {
		return m.removeBookmarksErr
	}
	for _, set := range m.bookmarks {
		delete(set, postID)
	}
	return nil
}

func (m *mockPostRepo) RemoveRetweetsFor(ctx context.Context, postID string) error {
	for _, set := range m.retweets {
		delete(set, postID)
	}
	return nil
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

var errStorageDown = errors.New("storage unavailable")

// livePost builds a Live post for tests
func livePost(id, author, topic string, createdAt time.Time) *Post {
	return &Post{
		ID:        id,
		Author:    author,
		Title:     "title of " + id,
		Body:      "body of " + id,
		Topic:     topic,
		Status:    StatusLive,
		CreatedAt: createdAt,
	}
}
