package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/feedsift/feedsift/pkg/domain"
)

// FeedRepository handles feed-related database operations
type FeedRepository struct {
	db *sqlx.DB
}

// feedSQL represents a feed row for SQL operations
type feedSQL struct {
	ID            int64      `db:"id"`
	Topic         string     `db:"topic"`
	URL           string     `db:"url"`
	ResultLimit   int        `db:"result_limit"`
	Enabled       bool       `db:"enabled"`
	LastProcessed *time.Time `db:"last_processed"`
	ErrorCount    int        `db:"error_count"`
	LastError     string     `db:"last_error"`
	CreatedAt     time.Time  `db:"created_at"`
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *sqlx.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// UpsertFeed inserts a feed or updates its topic, limit and enabled flag.
// Used to seed the store from configuration at startup; bookkeeping columns
// are left untouched on conflict.
func (r *FeedRepository) UpsertFeed(ctx context.Context, feed *domain.Feed) error {
	query := `
		INSERT INTO feeds (topic, url, result_limit, enabled)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			topic = excluded.topic,
			result_limit = excluded.result_limit,
			enabled = excluded.enabled
	`
	if _, err := r.db.ExecContext(ctx, query, feed.Topic, feed.URL, feed.Limit, feed.Enabled); err != nil {
		return fmt.Errorf("upsert feed: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, "SELECT id FROM feeds WHERE url = ?", feed.URL); err != nil {
		return fmt.Errorf("get feed id: %w", err)
	}
	feed.ID = id
	return nil
}

// GetFeed retrieves a feed by ID
func (r *FeedRepository) GetFeed(ctx context.Context, id int64) (*domain.Feed, error) {
	var f feedSQL
	if err := r.db.GetContext(ctx, &f, "SELECT * FROM feeds WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	return r.toDomainFeed(&f), nil
}

// GetFeeds retrieves feeds, optionally only enabled ones
func (r *FeedRepository) GetFeeds(ctx context.Context, enabledOnly bool) ([]*domain.Feed, error) {
	query := "SELECT * FROM feeds"
	if enabledOnly {
		query += " WHERE enabled = 1"
	}
	query += " ORDER BY topic"

	var rows []feedSQL
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("get feeds: %w", err)
	}

	feeds := make([]*domain.Feed, len(rows))
	for i, f := range rows {
		feeds[i] = r.toDomainFeed(&f)
	}
	return feeds, nil
}

// MarkProcessed records a completed processing run for the feed and clears
// its error state
func (r *FeedRepository) MarkProcessed(ctx context.Context, feedID int64, ts time.Time) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			UPDATE feeds
			SET last_processed = ?,
			    error_count = 0,
			    last_error = ''
			WHERE id = ?
		`
		_, err := r.db.ExecContext(ctx, query, ts, feedID)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("mark feed processed: %w", err)}
		}
		return nil
	})
}

// UpdateFeedError updates feed after a fetch/parse error
func (r *FeedRepository) UpdateFeedError(ctx context.Context, feedID int64, errMsg string) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			UPDATE feeds
			SET error_count = error_count + 1,
			    last_error = ?
			WHERE id = ?
		`
		_, err := r.db.ExecContext(ctx, query, errMsg, feedID)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("update feed error: %w", err)}
		}
		return nil
	})
}

// SetEnabled enables or disables a feed
func (r *FeedRepository) SetEnabled(ctx context.Context, feedID int64, enabled bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE feeds SET enabled = ? WHERE id = ?", enabled, feedID)
	if err != nil {
		return fmt.Errorf("set feed enabled: %w", err)
	}
	return nil
}

// toDomainFeed converts feedSQL to domain.Feed
func (r *FeedRepository) toDomainFeed(f *feedSQL) *domain.Feed {
	return &domain.Feed{
		ID:            f.ID,
		Topic:         f.Topic,
		URL:           f.URL,
		Limit:         f.ResultLimit,
		Enabled:       f.Enabled,
		LastProcessed: f.LastProcessed,
		ErrorCount:    f.ErrorCount,
		LastError:     f.LastError,
		CreatedAt:     f.CreatedAt,
	}
}
