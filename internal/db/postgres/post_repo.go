package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"piazza/internal/core/posts"
)

// postColumns is the full column list scanned by scanPost, kept in one place
// so every query stays in sync with it.
const postColumns = `
	id, author, title, body, topic, hashtag, location, url,
	reply_to, quote_to, status, expiration_time,
	like_count, dislike_count, comment_count, created_at`

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new post row
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (
			id, author, title, body, topic, hashtag, location, url,
			reply_to, quote_to, status, expiration_time, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13
		)
	`
	_, err := r.db.ExecContext(
		ctx, query,
		post.ID, post.Author, post.Title, post.Body, post.Topic,
		post.Hashtag, post.Location, post.URL,
		post.ReplyTo, post.QuoteTo, post.Status, post.ExpirationTime,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post with its full reaction sets and comments
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if err := r.loadReactions(ctx, post); err != nil {
		return nil, err
	}
	if err := r.loadComments(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns the newest posts, counts only, up to limit
func (r *postgresPostRepo) List(ctx context.Context, limit int) ([]*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id LIMIT $1`
	return r.queryPosts(ctx, query, limit)
}

// Update applies the non-nil fields of req and returns the updated post.
// COALESCE against NULL parameters keeps this a single static statement.
func (r *postgresPostRepo) Update(ctx context.Context, id string, req posts.UpdatePostRequest) (*posts.Post, error) {
	query := `
		UPDATE posts
		SET
			title = COALESCE($2, title),
			body = COALESCE($3, body),
			hashtag = COALESCE($4, hashtag),
			location = COALESCE($5, location),
			url = COALESCE($6, url)
		WHERE id = $1
		RETURNING ` + postColumns

	post, err := scanPost(r.db.QueryRowContext(
		ctx, query, id, req.Title, req.Body, req.Hashtag, req.Location, req.URL,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// Delete removes the post row. Reactions and comments go with it via
// storage-level cascade; everything else is the engagement processor's
// explicit cascade.
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return posts.ErrPostNotFound
	}
	return nil
}

// AddReaction atomically adds the user to the reaction set if absent and
// bumps the matching denormalized counter, all in one statement. The Live
// guard in the target CTE closes the stale-Live race at the storage layer:
// the insert simply finds no target row once the post has expired.
func (r *postgresPostRepo) AddReaction(ctx context.Context, postID, userID string, kind posts.ReactionKind) (int, error) {
	counter := "like_count"
	if kind == posts.ReactionDislike {
		counter = "dislike_count"
	}

	query := fmt.Sprintf(`
		WITH target AS (
			SELECT id FROM posts WHERE id = $1 AND status = 'Live'
		), ins AS (
			INSERT INTO post_reactions (post_id, user_id, kind)
			SELECT id, $2, $3 FROM target
			ON CONFLICT (post_id, user_id, kind) DO NOTHING
			RETURNING 1
		)
		UPDATE posts p
		SET %s = p.%s + (SELECT COUNT(*) FROM ins)
		WHERE p.id = (SELECT id FROM target)
		RETURNING p.%s
	`, counter, counter, counter)

	var count int
	err := r.db.QueryRowContext(ctx, query, postID, userID, kind).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, r.resolveGuardFailure(ctx, postID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add %s: %w", kind, err)
	}
	return count, nil
}

// AppendComment appends a comment under the same Live guard as AddReaction
func (r *postgresPostRepo) AppendComment(ctx context.Context, postID string, comment *posts.Comment) error {
	query := `
		WITH target AS (
			SELECT id FROM posts WHERE id = $2 AND status = 'Live'
		), ins AS (
			INSERT INTO comments (id, post_id, author, content, created_at)
			SELECT $1, id, $3, $4, $5 FROM target
			RETURNING 1
		)
		UPDATE posts p
		SET comment_count = p.comment_count + (SELECT COUNT(*) FROM ins)
		WHERE p.id = (SELECT id FROM target)
		RETURNING p.comment_count
	`

	var count int
	err := r.db.QueryRowContext(
		ctx, query,
		comment.ID, postID, comment.Author, comment.Text, comment.CreatedAt,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return r.resolveGuardFailure(ctx, postID)
	}
	if err != nil {
		return fmt.Errorf("failed to append comment: %w", err)
	}
	return nil
}

// resolveGuardFailure distinguishes why a Live-guarded statement matched no
// rows: the post is either gone or expired.
func (r *postgresPostRepo) resolveGuardFailure(ctx context.Context, postID string) error {
	var status posts.PostStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM posts WHERE id = $1`, postID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return posts.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to resolve post status: %w", err)
	}
	return posts.ErrPostExpired
}

// ExpireOverdue flips every overdue Live post to Expired in one statement
// and returns the flipped posts for expiration events
func (r *postgresPostRepo) ExpireOverdue(ctx context.Context, now time.Time) ([]posts.ExpiredPost, error) {
	query := `
		UPDATE posts
		SET status = 'Expired'
		WHERE status = 'Live' AND expiration_time IS NOT NULL AND expiration_time <= $1
		RETURNING id, author, topic
	`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire overdue posts: %w", err)
	}
	defer rows.Close()

	var expired []posts.ExpiredPost
	for rows.Next() {
		var p posts.ExpiredPost
		if err := rows.Scan(&p.ID, &p.Author, &p.Topic); err != nil {
			return nil, fmt.Errorf("failed to scan expired post: %w", err)
		}
		expired = append(expired, p)
	}
	return expired, rows.Err()
}

// ExpirePostIfOverdue is the single-post sweep used before mutations
func (r *postgresPostRepo) ExpirePostIfOverdue(ctx context.Context, id string, now time.Time) (*posts.ExpiredPost, error) {
	query := `
		UPDATE posts
		SET status = 'Expired'
		WHERE id = $1 AND status = 'Live' AND expiration_time IS NOT NULL AND expiration_time <= $2
		RETURNING id, author, topic
	`
	var p posts.ExpiredPost
	err := r.db.QueryRowContext(ctx, query, id, now).Scan(&p.ID, &p.Author, &p.Topic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to expire post: %w", err)
	}
	return &p, nil
}

// ListByTopic returns all posts in the topic in stable insertion order
func (r *postgresPostRepo) ListByTopic(ctx context.Context, topic string) ([]*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE topic = $1 ORDER BY created_at, id`
	return r.queryPosts(ctx, query, topic)
}

// ListExpiredInTopic returns the Expired posts in the topic
func (r *postgresPostRepo) ListExpiredInTopic(ctx context.Context, topic string) ([]*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE topic = $1 AND status = 'Expired' ORDER BY created_at, id`
	return r.queryPosts(ctx, query, topic)
}

// MostActiveInTopic ranks Live posts by combined reaction count, breaking
// ties on earliest creation. The trailing id ordering makes the result
// deterministic even for posts created in the same instant.
func (r *postgresPostRepo) MostActiveInTopic(ctx context.Context, topic string) (*posts.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE topic = $1 AND status = 'Live'
		ORDER BY like_count + dislike_count DESC, created_at, id
		LIMIT 1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, topic))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNoActivePosts
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select most active post: %w", err)
	}
	return post, nil
}

// AddRetweet records the retweet if absent. Idempotent.
func (r *postgresPostRepo) AddRetweet(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO retweets (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("failed to add retweet: %w", err)
	}
	return nil
}

// RemoveRetweet drops the retweet if present. Idempotent.
func (r *postgresPostRepo) RemoveRetweet(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM retweets WHERE user_id = $1 AND post_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("failed to remove retweet: %w", err)
	}
	return nil
}

// AddBookmark saves the bookmark if absent. Idempotent.
func (r *postgresPostRepo) AddBookmark(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	return nil
}

// RemoveBookmark drops the bookmark if present. Idempotent.
func (r *postgresPostRepo) RemoveBookmark(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

// ListBookmarked returns the user's bookmarked posts, newest bookmark first
func (r *postgresPostRepo) ListBookmarked(ctx context.Context, userID string) ([]*posts.Post, error) {
	query := `
		SELECT ` + qualifyColumns("p") + `
		FROM posts p
		JOIN bookmarks b ON b.post_id = p.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`
	return r.queryPosts(ctx, query, userID)
}

// DeleteReferencing removes replies and quotes of the given post
func (r *postgresPostRepo) DeleteReferencing(ctx context.Context, postID string) (int64, error) {
	query := `DELETE FROM posts WHERE reply_to = $1 OR quote_to = $1`
	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete referencing posts: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read cascade result: %w", err)
	}
	return affected, nil
}

// RemoveBookmarksFor drops every bookmark referencing the post
func (r *postgresPostRepo) RemoveBookmarksFor(ctx context.Context, postID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to remove bookmarks for post: %w", err)
	}
	return nil
}

// RemoveRetweetsFor pulls the post out of every retweet set
func (r *postgresPostRepo) RemoveRetweetsFor(ctx context.Context, postID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM retweets WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to remove retweets for post: %w", err)
	}
	return nil
}

// loadReactions fills the post's like/dislike user-id sets
func (r *postgresPostRepo) loadReactions(ctx context.Context, post *posts.Post) error {
	query := `
		SELECT user_id, kind FROM post_reactions
		WHERE post_id = $1
		ORDER BY created_at, user_id
	`
	rows, err := r.db.QueryContext(ctx, query, post.ID)
	if err != nil {
		return fmt.Errorf("failed to load reactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var kind posts.ReactionKind
		if err := rows.Scan(&userID, &kind); err != nil {
			return fmt.Errorf("failed to scan reaction: %w", err)
		}
		switch kind {
		case posts.ReactionLike:
			post.Likes = append(post.Likes, userID)
		case posts.ReactionDislike:
			post.Dislikes = append(post.Dislikes, userID)
		}
	}
	return rows.Err()
}

// loadComments fills the post's comments in insertion order
func (r *postgresPostRepo) loadComments(ctx context.Context, post *posts.Post) error {
	query := `
		SELECT id, post_id, author, content, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, post.ID)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c posts.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		post.Comments = append(post.Comments, c)
	}
	return rows.Err()
}

// queryPosts runs a multi-row post query and scans counts-only posts
func (r *postgresPostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var result []*posts.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	return result, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var post posts.Post
	err := row.Scan(
		&post.ID, &post.Author, &post.Title, &post.Body, &post.Topic,
		&post.Hashtag, &post.Location, &post.URL,
		&post.ReplyTo, &post.QuoteTo, &post.Status, &post.ExpirationTime,
		&post.LikeCount, &post.DislikeCount, &post.CommentCount, &post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// qualifyColumns prefixes the shared column list with a table alias for
// queries that join posts against another table.
func qualifyColumns(alias string) string {
	return alias + `.id, ` + alias + `.author, ` + alias + `.title, ` + alias + `.body, ` +
		alias + `.topic, ` + alias + `.hashtag, ` + alias + `.location, ` + alias + `.url, ` +
		alias + `.reply_to, ` + alias + `.quote_to, ` + alias + `.status, ` + alias + `.expiration_time, ` +
		alias + `.like_count, ` + alias + `.dislike_count, ` + alias + `.comment_count, ` + alias + `.created_at`
}
