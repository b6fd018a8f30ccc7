package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func expiredPost(id, author, topic string, createdAt time.Time) *Post {
	post := livePost(id, author, topic, createdAt)
	post.Status = StatusExpired
	return post
}

func TestEngagement_Like_AddsUserOnce(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, livePost("p1", "alice", "news", time.Now().UTC())))

	count, err := processor.Like(ctx, "p1", "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Liking twice has the same effect as once
	count, err = processor.Like(ctx, "p1", "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"bob"}, repo.posts["p1"].Likes)
}

func TestEngagement_Like_RejectsAuthor(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, livePost("p1", "alice", "news", time.Now().UTC())))

	_, err := processor.Like(ctx, "p1", "alice")

	assert.ErrorIs(t, err, ErrSelfAction)
	assert.Empty(t, repo.posts["p1"].Likes, "likes unchanged after rejected self-like")
}

func TestEngagement_Like_ErrorCases(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, expiredPost("gone", "alice", "news", time.Now().UTC())))

	tests := []struct {
		name     string
		postID   string
		userID   string
		expected error
	}{
		{name: "unknown post", postID: "missing", userID: "bob", expected: ErrPostNotFound},
		{name: "expired post", postID: "gone", userID: "bob", expected: ErrPostExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := processor.Like(ctx, tt.postID, tt.userID)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestEngagement_Dislike_AllowsAuthor(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, livePost("p1", "alice", "news", time.Now().UTC())))

	// No self-action restriction on dislikes
	count, err := processor.Dislike(ctx, "p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEngagement_Dislike_IndependentOfLikes(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, livePost("p1", "alice", "news", time.Now().UTC())))

	_, err := processor.Like(ctx, "p1", "bob")
	require.NoError(t, err)
	_, err = processor.Dislike(ctx, "p1", "bob")
	require.NoError(t, err)

	// No mutual exclusion: the same user may hold both
	assert.Equal(t, []string{"bob"}, repo.posts["p1"].Likes)
	assert.Equal(t, []string{"bob"}, repo.posts["p1"].Dislikes)
}

func TestEngagement_Dislike_RejectsExpired(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, expiredPost("p1", "alice", "news", time.Now().UTC())))

	_, err := processor.Dislike(ctx, "p1", "bob")

	assert.ErrorIs(t, err, ErrPostExpired)
}

func TestEngagement_AddComment_AppendsInOrder(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, livePost("p1", "alice", "news", now)))

	first, err := processor.AddComment(ctx, "p1", "bob", "first", now)
	require.NoError(t, err)
	second, err := processor.AddComment(ctx, "p1", "carol", "second", now.Add(time.Second))
	require.NoError(t, err)

	comments := repo.posts["p1"].Comments
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
	assert.Equal(t, "bob", comments[0].Author)
	assert.Equal(t, now, comments[0].CreatedAt)
}

func TestEngagement_AddComment_RejectsEmptyText(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, livePost("p1", "alice", "news", time.Now().UTC())))

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := processor.AddComment(ctx, "p1", "bob", text, time.Now().UTC())
		assert.True(t, IsValidationError(err), "text %q should be rejected", text)
	}
	assert.Empty(t, repo.posts["p1"].Comments)
}

func TestEngagement_AddComment_RejectsExpired(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, expiredPost("p1", "alice", "news", time.Now().UTC())))

	_, err := processor.AddComment(ctx, "p1", "bob", "too late", time.Now().UTC())

	assert.ErrorIs(t, err, ErrPostExpired)
	assert.Empty(t, repo.posts["p1"].Comments, "expired post comments never grow")
}

func TestEngagement_Retweet_RejectsExpired(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, expiredPost("p1", "alice", "news", time.Now().UTC())))

	assert.ErrorIs(t, processor.Retweet(ctx, "p1", "bob"), ErrPostExpired)
}

func TestEngagement_RetweetAndRemove(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, livePost("p1", "alice", "news", time.Now().UTC())))

	require.NoError(t, processor.Retweet(ctx, "p1", "bob"))
	require.NoError(t, processor.Retweet(ctx, "p1", "bob"))
	assert.True(t, repo.retweets["bob"]["p1"])

	require.NoError(t, processor.RemoveRetweet(ctx, "p1", "bob"))
	assert.False(t, repo.retweets["bob"]["p1"])
}

func TestEngagement_DeletePost_RejectsNonAuthor(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, livePost("p1", "alice", "news", time.Now().UTC())))

	_, err := processor.DeletePost(ctx, "p1", "bob")

	assert.ErrorIs(t, err, ErrNotAuthor)
	assert.Contains(t, repo.posts, "p1")
}

func TestEngagement_DeletePost_CascadesReferences(t *testing.T) {
	repo := newMockPostRepo()
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()
	now := time.Now().UTC()

	parent := livePost("parent", "alice", "news", now)
	reply := livePost("reply", "bob", "news", now)
	reply.ReplyTo = strPtr("parent")
	quote := livePost("quote", "carol", "news", now)
	quote.QuoteTo = strPtr("parent")
	unrelated := livePost("other", "dave", "news", now)

	require.NoError(t, repo.Create(ctx, parent))
	require.NoError(t, repo.Create(ctx, reply))
	require.NoError(t, repo.Create(ctx, quote))
	require.NoError(t, repo.Create(ctx, unrelated))
	require.NoError(t, repo.AddBookmark(ctx, "parent", "bob"))
	require.NoError(t, repo.AddRetweet(ctx, "parent", "carol"))

	deleted, err := processor.DeletePost(ctx, "parent", "alice")

	require.NoError(t, err)
	assert.Equal(t, "parent", deleted.ID)
	assert.NotContains(t, repo.posts, "parent")
	assert.NotContains(t, repo.posts, "reply", "replies are deleted, not left dangling")
	assert.NotContains(t, repo.posts, "quote", "quotes are deleted, not left dangling")
	assert.Contains(t, repo.posts, "other")
	assert.False(t, repo.bookmarks["bob"]["parent"])
	assert.False(t, repo.retweets["carol"]["parent"])
}

func TestEngagement_DeletePost_CascadeFailureDoesNotUndoDelete(t *testing.T) {
	repo := newMockPostRepo()
	repo.deleteReferencingErr = errStorageDown
	repo.removeBookmarksErr = errStorageDown
	processor := NewEngagementProcessor(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, livePost("p1", "alice", "news", time.Now().UTC())))

	_, err := processor.DeletePost(ctx, "p1", "alice")

	require.NoError(t, err, "cascade failures are recorded, not surfaced")
	assert.NotContains(t, repo.posts, "p1", "primary delete stays committed")
}
