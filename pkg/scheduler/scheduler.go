// Package scheduler runs the two periodic loops of the pipeline: refreshing
// topic feeds into pending articles, and driving claimed articles through
// resolution and extraction.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/feedsift/feedsift/pkg/domain"
)

//go:generate moq -out mocks/feed_store.go -pkg mocks -skip-ensure -fmt goimports . FeedStore
//go:generate moq -out mocks/refresher.go -pkg mocks -skip-ensure -fmt goimports . Refresher
//go:generate moq -out mocks/batch_processor.go -pkg mocks -skip-ensure -fmt goimports . BatchProcessor

// FeedStore is the feed persistence surface the scheduler drives
type FeedStore interface {
	GetFeed(ctx context.Context, id int64) (*domain.Feed, error)
	GetFeeds(ctx context.Context, enabledOnly bool) ([]*domain.Feed, error)
	MarkProcessed(ctx context.Context, feedID int64, at time.Time) error
	UpdateFeedError(ctx context.Context, feedID int64, errMsg string) error
}

// Refresher fetches a feed and creates pending articles for new entries
type Refresher interface {
	Refresh(ctx context.Context, f *domain.Feed) (int, error)
}

// BatchProcessor claims and processes eligible articles for a feed
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, feed *domain.Feed) (int, error)
}

// Config holds scheduler intervals and concurrency
type Config struct {
	UpdateInterval time.Duration // feed refresh period
	IngestInterval time.Duration // article processing period
	MaxWorkers     int           // concurrent feed refreshes
}

// Scheduler manages periodic feed refreshes and article ingestion
type Scheduler struct {
	feeds          FeedStore
	refresher      Refresher
	processor      BatchProcessor
	updateInterval time.Duration
	ingestInterval time.Duration
	maxWorkers     int
	wg             sync.WaitGroup
	cancel         context.CancelFunc
}

// NewScheduler creates a scheduler instance
func NewScheduler(feeds FeedStore, refresher Refresher, processor BatchProcessor, cfg Config) *Scheduler {
	if cfg.UpdateInterval == 0 {
		cfg.UpdateInterval = 30 * time.Minute
	}
	if cfg.IngestInterval == 0 {
		cfg.IngestInterval = time.Minute
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 4
	}
	return &Scheduler{
		feeds:          feeds,
		refresher:      refresher,
		processor:      processor,
		updateInterval: cfg.UpdateInterval,
		ingestInterval: cfg.IngestInterval,
		maxWorkers:     cfg.MaxWorkers,
	}
}

// Start begins the scheduler loops
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.feedRefreshLoop(ctx)

	s.wg.Add(1)
	go s.ingestionLoop(ctx)

	lgr.Printf("[INFO] scheduler started, refresh every %v, ingest every %v", s.updateInterval, s.ingestInterval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// feedRefreshLoop periodically refreshes all enabled feeds
func (s *Scheduler) feedRefreshLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	// run immediately on start
	s.refreshAllFeeds(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshAllFeeds(ctx)
		}
	}
}

// refreshAllFeeds fetches all enabled feeds concurrently
func (s *Scheduler) refreshAllFeeds(ctx context.Context) {
	feeds, err := s.feeds.GetFeeds(ctx, true)
	if err != nil {
		lgr.Printf("[ERROR] failed to get enabled feeds: %v", err)
		return
	}
	if len(feeds) == 0 {
		return
	}

	lgr.Printf("[INFO] refreshing %d feeds", len(feeds))

	sem := make(chan struct{}, s.maxWorkers)
	var wg sync.WaitGroup

	for _, f := range feeds {
		wg.Add(1)
		go func(f *domain.Feed) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			s.refreshFeed(ctx, f)
		}(f)
	}

	wg.Wait()
	lgr.Printf("[INFO] feed refresh completed")
}

// refreshFeed fetches a single feed and records the outcome
func (s *Scheduler) refreshFeed(ctx context.Context, f *domain.Feed) {
	added, err := s.refresher.Refresh(ctx, f)
	if err != nil {
		lgr.Printf("[ERROR] failed to refresh feed %s: %v", f.URL, err)
		if dbErr := s.feeds.UpdateFeedError(ctx, f.ID, err.Error()); dbErr != nil {
			lgr.Printf("[ERROR] failed to record feed error: %v", dbErr)
		}
		return
	}

	if err := s.feeds.MarkProcessed(ctx, f.ID, time.Now().UTC()); err != nil {
		lgr.Printf("[ERROR] failed to mark feed processed: %v", err)
	}
	if added > 0 {
		lgr.Printf("[INFO] feed %s (%s): %d new articles", f.Topic, f.URL, added)
	}
}

// ingestionLoop periodically processes eligible articles for every feed
func (s *Scheduler) ingestionLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.ingestInterval)
	defer ticker.Stop()

	// run immediately on start
	s.processAllFeeds(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.processAllFeeds(ctx)
		}
	}
}

// processAllFeeds runs one ingestion pass over every enabled feed. Feeds are
// processed sequentially, articles within a feed concurrently by the worker.
func (s *Scheduler) processAllFeeds(ctx context.Context) {
	feeds, err := s.feeds.GetFeeds(ctx, true)
	if err != nil {
		lgr.Printf("[ERROR] failed to get enabled feeds: %v", err)
		return
	}

	total := 0
	for _, f := range feeds {
		if ctx.Err() != nil {
			return
		}
		n, err := s.processor.ProcessBatch(ctx, f)
		if err != nil {
			lgr.Printf("[ERROR] failed to process feed %s: %v", f.Topic, err)
			continue
		}
		total += n
	}
	if total > 0 {
		lgr.Printf("[INFO] ingestion pass processed %d articles", total)
	}
}

// RefreshFeedNow triggers an immediate refresh of a specific feed
func (s *Scheduler) RefreshFeedNow(ctx context.Context, feedID int64) error {
	f, err := s.feeds.GetFeed(ctx, feedID)
	if err != nil {
		return fmt.Errorf("get feed: %w", err)
	}
	s.refreshFeed(ctx, f)
	return nil
}

// ProcessFeedNow triggers an immediate ingestion pass for a specific feed
func (s *Scheduler) ProcessFeedNow(ctx context.Context, feedID int64) error {
	f, err := s.feeds.GetFeed(ctx, feedID)
	if err != nil {
		return fmt.Errorf("get feed: %w", err)
	}
	if _, err := s.processor.ProcessBatch(ctx, f); err != nil {
		return fmt.Errorf("process feed %d: %w", feedID, err)
	}
	return nil
}
