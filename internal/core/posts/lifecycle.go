package posts

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ExpiredPost identifies a post a sweep flipped to Expired, carrying just
// enough for lifecycle event payloads.
type ExpiredPost struct {
	ID     string
	Author string
	Topic  string
}

// LifecycleManager keeps post status consistent with wall-clock time without
// a background job. It runs as a pre-step on every request that touches
// posts; each sweep is a single idempotent UPDATE.
type LifecycleManager struct {
	repo   Repository
	logger *slog.Logger
}

// NewLifecycleManager creates a lifecycle manager over the given repository
func NewLifecycleManager(repo Repository, logger *slog.Logger) *LifecycleManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &LifecycleManager{repo: repo, logger: logger}
}

// Sweep transitions every Live post with an expiration time at or before now
// to Expired and returns the flipped posts. Idempotent and monotonic:
// running it twice produces no further change, and Expired never reverts.
func (m *LifecycleManager) Sweep(ctx context.Context, now time.Time) ([]ExpiredPost, error) {
	expired, err := m.repo.ExpireOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep overdue posts: %w", err)
	}
	if len(expired) > 0 {
		m.logger.Info("expired overdue posts", "count", len(expired))
	}
	return expired, nil
}

// SweepPost re-checks a single post immediately before a mutation, flipping
// it to Expired if overdue. This is the stale-Live race guard: the global
// sweep may have run on an older clock reading than the mutation. Returns
// the flipped post, or nil if the post was not overdue.
func (m *LifecycleManager) SweepPost(ctx context.Context, id string, now time.Time) (*ExpiredPost, error) {
	flipped, err := m.repo.ExpirePostIfOverdue(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep post %s: %w", id, err)
	}
	return flipped, nil
}
