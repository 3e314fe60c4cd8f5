package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/feedsift/feedsift/pkg/domain"
)

// ErrDuplicateFinalURL is returned when a success record would reuse a final
// URL already owned by another article. Expected under concurrent feeds
// pointing at the same story, not a bug.
var ErrDuplicateFinalURL = errors.New("final url already exists")

// ErrDuplicateSourceURL is returned when an article with the same source URL
// was already ingested
var ErrDuplicateSourceURL = errors.New("source url already exists")

// ArticleRepository handles article-related database operations
type ArticleRepository struct {
	db *sqlx.DB
}

// articleSQL represents an article row for SQL operations
type articleSQL struct {
	ID        int64  `db:"id"`
	FeedID    int64  `db:"feed_id"`
	Topic     string `db:"topic"`
	SourceURL string `db:"source_url"`

	Title       string    `db:"title"`
	Description string    `db:"description"`
	Published   time.Time `db:"published"`
	SourceName  string    `db:"source_name"`

	FinalURL *string `db:"final_url"`
	Status   string  `db:"status"`

	MetaTitle         *string `db:"meta_title"`
	MetaDescription   *string `db:"meta_description"`
	MetaImage         *string `db:"meta_image"`
	MetaCanonicalURL  *string `db:"meta_canonical_url"`
	MetaSiteName      *string `db:"meta_site_name"`
	MetaTwitterImage  *string `db:"meta_twitter_image"`
	MetaAuthor        *string `db:"meta_author"`
	MetaPublishedTime *string `db:"meta_published_time"`
	MetaSection       *string `db:"meta_section"`
	Tags              tagsSQL `db:"tags"`
	Content           string  `db:"content"`
	WordCount         int     `db:"word_count"`

	RetryCount  int        `db:"retry_count"`
	NextRetryAt *time.Time `db:"next_retry_at"`
	LastError   string     `db:"last_error"`

	ClaimedAt *time.Time `db:"claimed_at"`

	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// tagsSQL is a JSON array of tag strings for SQL operations
type tagsSQL []string

// Value implements driver.Valuer for database storage
func (t tagsSQL) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner for database retrieval
func (t *tagsSQL) Scan(value interface{}) error {
	if value == nil {
		*t = tagsSQL{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return json.Unmarshal([]byte("[]"), t)
	}

	return json.Unmarshal(data, t)
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// CreateArticle inserts a new pending article from a feed entry
func (r *ArticleRepository) CreateArticle(ctx context.Context, article *domain.Article) error {
	row := &articleSQL{
		FeedID:      article.FeedID,
		Topic:       article.Topic,
		SourceURL:   article.SourceURL,
		Title:       article.Title,
		Description: article.Description,
		Published:   article.Published,
		SourceName:  article.SourceName,
		Status:      string(domain.StatusPending),
		Tags:        tagsSQL{},
	}

	query := `
		INSERT INTO articles (
			feed_id, topic, source_url, title, description, published, source_name, status, tags
		) VALUES (
			:feed_id, :topic, :source_url, :title, :description, :published, :source_name, :status, :tags
		)
	`
	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		if isUniqueViolation(err, "source_url") {
			return ErrDuplicateSourceURL
		}
		return fmt.Errorf("create article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get insert id: %w", err)
	}

	article.ID = id
	return nil
}

// GetArticle retrieves an article by ID
func (r *ArticleRepository) GetArticle(ctx context.Context, id int64) (*domain.Article, error) {
	var row articleSQL
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM articles WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return r.toDomainArticle(&row), nil
}

// ArticleFilter narrows GetArticles results
type ArticleFilter struct {
	Topic  string
	Status domain.ArticleStatus
	Limit  int
}

// GetArticles retrieves articles with optional filters, newest first
func (r *ArticleRepository) GetArticles(ctx context.Context, filter ArticleFilter) ([]*domain.Article, error) {
	query := "SELECT * FROM articles WHERE 1=1"
	args := []interface{}{}

	if filter.Topic != "" {
		query += " AND topic = ?"
		args = append(args, filter.Topic)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var rows []articleSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get articles: %w", err)
	}

	articles := make([]*domain.Article, len(rows))
	for i, row := range rows {
		articles[i] = r.toDomainArticle(&row)
	}
	return articles, nil
}

// ArticleExists checks if an article with the given source URL was already
// ingested
func (r *ArticleRepository) ArticleExists(ctx context.Context, sourceURL string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE source_url = ?)", sourceURL)
	if err != nil {
		return false, fmt.Errorf("check article exists: %w", err)
	}
	return exists, nil
}

// ExistsByFinalURL checks if another article already resolved to the given
// final URL
func (r *ArticleRepository) ExistsByFinalURL(ctx context.Context, finalURL string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM articles WHERE final_url = ? AND id != ?)", finalURL, excludeID)
	if err != nil {
		return false, fmt.Errorf("check final url exists: %w", err)
	}
	return exists, nil
}

// ClaimBatch atomically claims up to limit articles of the feed that are
// pending or retry-eligible. Claimed rows carry a claim marker so concurrent
// workers never pick them up; markers older than claimTTL are treated as
// abandoned by a crashed worker and return to the pool.
func (r *ArticleRepository) ClaimBatch(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	var claimed []*domain.Article
	err := retrier.Do(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("begin claim tx: %w", err)}
		}
		defer func() { _ = tx.Rollback() }()

		staleBefore := now.Add(-claimTTL)
		query := `
			SELECT * FROM articles
			WHERE feed_id = ?
			AND (
				status = 'pending'
				OR (status = 'failed' AND next_retry_at IS NOT NULL AND next_retry_at <= ?)
			)
			AND (claimed_at IS NULL OR claimed_at <= ?)
			ORDER BY created_at
			LIMIT ?
		`
		var rows []articleSQL
		if err := tx.SelectContext(ctx, &rows, query, feedID, now, staleBefore, limit); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("select claimable articles: %w", err)}
		}

		if len(rows) == 0 {
			claimed = nil
			return tx.Commit()
		}

		ids := make([]int64, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}

		markQuery, args, err := sqlx.In("UPDATE articles SET claimed_at = ? WHERE id IN (?)", now, ids)
		if err != nil {
			return &criticalError{err: fmt.Errorf("build claim update: %w", err)}
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(markQuery), args...); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("mark articles claimed: %w", err)}
		}

		if err := tx.Commit(); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("commit claim: %w", err)}
		}

		claimed = make([]*domain.Article, len(rows))
		for i, row := range rows {
			claimed[i] = r.toDomainArticle(&row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// RecordSuccess stores the resolution and extraction outcome and clears all
// retry bookkeeping. A unique violation on final_url maps to
// ErrDuplicateFinalURL so the worker can fail the article as a duplicate.
func (r *ArticleRepository) RecordSuccess(ctx context.Context, articleID int64, finalURL string, meta *domain.Metadata) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			UPDATE articles
			SET final_url = ?,
			    status = 'success',
			    meta_title = ?, meta_description = ?, meta_image = ?, meta_canonical_url = ?,
			    meta_site_name = ?, meta_twitter_image = ?, meta_author = ?,
			    meta_published_time = ?, meta_section = ?,
			    tags = ?, content = ?, word_count = ?,
			    retry_count = 0,
			    next_retry_at = NULL,
			    last_error = '',
			    claimed_at = NULL,
			    processed_at = ?,
			    updated_at = ?
			WHERE id = ?
		`
		now := time.Now()
		_, err := r.db.ExecContext(ctx, query,
			finalURL,
			meta.Title, meta.Description, meta.Image, meta.CanonicalURL,
			meta.SiteName, meta.TwitterImage, meta.Author,
			meta.PublishedTime, meta.Section,
			tagsSQL(meta.Tags), meta.Content, meta.WordCount,
			now, now, articleID)
		if err != nil {
			if isUniqueViolation(err, "final_url") {
				return &criticalError{err: ErrDuplicateFinalURL}
			}
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("record success: %w", err)}
		}
		return nil
	})
}

// RecordFailure stores a failure outcome. A terminal failure clears the
// retry schedule permanently; a retryable one records the next attempt time.
func (r *ArticleRepository) RecordFailure(ctx context.Context, articleID int64, retryCount int, nextRetryAt *time.Time, errMsg string, terminal bool) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		var processedAt *time.Time
		if terminal {
			now := time.Now()
			processedAt = &now
		}

		query := `
			UPDATE articles
			SET status = 'failed',
			    retry_count = ?,
			    next_retry_at = ?,
			    last_error = ?,
			    claimed_at = NULL,
			    processed_at = COALESCE(?, processed_at),
			    updated_at = ?
			WHERE id = ?
		`
		_, err := r.db.ExecContext(ctx, query, retryCount, nextRetryAt, errMsg, processedAt, time.Now(), articleID)
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("record failure: %w", err)}
		}
		return nil
	})
}

// ReleaseClaim returns a claimed article to the pool without changing its
// state, used when processing is interrupted before any outcome
func (r *ArticleRepository) ReleaseClaim(ctx context.Context, articleID int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE articles SET claimed_at = NULL WHERE id = ?", articleID)
	if err != nil {
		return fmt.Errorf("release claim: %w", err)
	}
	return nil
}

// CountByStatus returns article counts per lifecycle status
func (r *ArticleRepository) CountByStatus(ctx context.Context) (map[domain.ArticleStatus]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, "SELECT status, COUNT(*) as count FROM articles GROUP BY status"); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	counts := make(map[domain.ArticleStatus]int, len(rows))
	for _, row := range rows {
		counts[domain.ArticleStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// toDomainArticle converts articleSQL to domain.Article
func (r *ArticleRepository) toDomainArticle(row *articleSQL) *domain.Article {
	tags := []string(row.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &domain.Article{
		ID:          row.ID,
		FeedID:      row.FeedID,
		Topic:       row.Topic,
		SourceURL:   row.SourceURL,
		Title:       row.Title,
		Description: row.Description,
		Published:   row.Published,
		SourceName:  row.SourceName,
		FinalURL:    row.FinalURL,
		Status:      domain.ArticleStatus(row.Status),
		Metadata: domain.Metadata{
			Title:         row.MetaTitle,
			Description:   row.MetaDescription,
			Image:         row.MetaImage,
			CanonicalURL:  row.MetaCanonicalURL,
			SiteName:      row.MetaSiteName,
			TwitterImage:  row.MetaTwitterImage,
			Author:        row.MetaAuthor,
			PublishedTime: row.MetaPublishedTime,
			Section:       row.MetaSection,
			Tags:          tags,
			Content:       row.Content,
			WordCount:     row.WordCount,
		},
		RetryCount:  row.RetryCount,
		NextRetryAt: row.NextRetryAt,
		LastError:   row.LastError,
		CreatedAt:   row.CreatedAt,
		ProcessedAt: row.ProcessedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// ensure sql is referenced for the Scanner contract documented on tagsSQL
var _ sql.Scanner = (*tagsSQL)(nil)
