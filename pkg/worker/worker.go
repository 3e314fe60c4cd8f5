// Package worker drives articles through the resolve/extract pipeline:
// claim a batch, resolve each source URL through its redirect chain,
// extract metadata from the final page and record the outcome with
// exponential backoff on transient failures.
package worker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/feedsift/feedsift/pkg/domain"
	"github.com/feedsift/feedsift/pkg/extract"
	"github.com/feedsift/feedsift/pkg/repository"
	"github.com/feedsift/feedsift/pkg/resolve"
)

//go:generate moq -out mocks/url_resolver.go -pkg mocks -skip-ensure -fmt goimports . URLResolver
//go:generate moq -out mocks/article_processor.go -pkg mocks -skip-ensure -fmt goimports . ArticleProcessor

// URLResolver follows a source URL through its redirect chain and returns
// the final page
type URLResolver interface {
	Resolve(ctx context.Context, entryURL string) (*resolve.Resolved, error)
}

// ArticleProcessor is the persistence surface the worker drives
type ArticleProcessor interface {
	ClaimBatch(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error)
	ExistsByFinalURL(ctx context.Context, finalURL string, excludeID int64) (bool, error)
	RecordSuccess(ctx context.Context, articleID int64, finalURL string, meta *domain.Metadata) error
	RecordFailure(ctx context.Context, articleID int64, retryCount int, nextRetryAt *time.Time, errMsg string, terminal bool) error
	ReleaseClaim(ctx context.Context, articleID int64) error
}

// Config holds retry and concurrency settings
type Config struct {
	MaxRetries int           // attempts before a transient failure becomes terminal
	BaseDelay  time.Duration // backoff base
	MaxDelay   time.Duration // backoff cap before jitter
	MaxWorkers int           // concurrent articles per batch
	BatchSize  int           // claim cap for feeds without a limit of their own
	ClaimTTL   time.Duration // stale-claim expiry
}

// Worker processes claimed articles through resolution and extraction
type Worker struct {
	resolver  URLResolver
	extractor *extract.Extractor
	store     ArticleProcessor
	cfg       Config

	now func() time.Time
}

// New creates a worker with the given pipeline stages
func New(resolver URLResolver, extractor *extract.Extractor, store ArticleProcessor, cfg Config) *Worker {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 5
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = time.Minute
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = time.Hour
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 20
	}
	if cfg.ClaimTTL == 0 {
		cfg.ClaimTTL = 15 * time.Minute
	}
	return &Worker{
		resolver:  resolver,
		extractor: extractor,
		store:     store,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ProcessBatch claims up to the feed's limit of eligible articles and
// processes them concurrently. Returns the number of articles attempted.
func (w *Worker) ProcessBatch(ctx context.Context, feed *domain.Feed) (int, error) {
	limit := w.cfg.BatchSize
	if feed.Limit > 0 {
		limit = feed.Limit
	}
	articles, err := w.store.ClaimBatch(ctx, feed.ID, limit, w.now().UTC(), w.cfg.ClaimTTL)
	if err != nil {
		return 0, fmt.Errorf("claim batch for feed %d: %w", feed.ID, err)
	}
	if len(articles) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.MaxWorkers)
	for _, article := range articles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				// shutdown mid-batch, release so another pass picks it up
				if relErr := w.store.ReleaseClaim(context.WithoutCancel(gctx), article.ID); relErr != nil {
					lgr.Printf("[WARN] release claim on article %d: %v", article.ID, relErr)
				}
				return nil
			}
			w.processArticle(gctx, article)
			return nil
		})
	}
	_ = g.Wait()
	return len(articles), nil
}

// processArticle runs one article through resolution and extraction and
// records the resulting state transition. Outcomes are persisted with a
// non-cancellable context so a shutdown mid-article never leaves the retry
// bookkeeping half-written.
func (w *Worker) processArticle(ctx context.Context, article *domain.Article) {
	pctx := context.WithoutCancel(ctx)

	resolved, err := w.resolver.Resolve(ctx, article.SourceURL)
	if err != nil {
		// a shutdown mid-fetch is not an article failure, return it to the pool
		if ctx.Err() != nil {
			if relErr := w.store.ReleaseClaim(pctx, article.ID); relErr != nil {
				lgr.Printf("[WARN] release claim on article %d: %v", article.ID, relErr)
			}
			return
		}
		w.recordError(pctx, article, err)
		return
	}

	// the final destination must be new across all topics
	exists, err := w.store.ExistsByFinalURL(pctx, resolved.FinalURL, article.ID)
	if err != nil {
		lgr.Printf("[WARN] duplicate check for article %d: %v", article.ID, err)
		if relErr := w.store.ReleaseClaim(pctx, article.ID); relErr != nil {
			lgr.Printf("[WARN] release claim on article %d: %v", article.ID, relErr)
		}
		return
	}
	if exists {
		w.failTerminal(pctx, article, fmt.Sprintf("duplicate final URL %s", resolved.FinalURL))
		return
	}

	res := w.extractor.Extract(string(resolved.Body))
	meta := &domain.Metadata{
		Title:         res.Title,
		Description:   res.Description,
		Image:         res.Image,
		CanonicalURL:  res.CanonicalURL,
		SiteName:      res.SiteName,
		TwitterImage:  res.TwitterImage,
		Author:        res.Author,
		PublishedTime: res.PublishedTime,
		Section:       res.Section,
		Tags:          res.Tags,
		Content:       res.Content,
		WordCount:     res.WordCount,
	}

	if err := w.store.RecordSuccess(pctx, article.ID, resolved.FinalURL, meta); err != nil {
		// lost the race on the unique index to a concurrent worker
		if errors.Is(err, repository.ErrDuplicateFinalURL) {
			w.failTerminal(pctx, article, fmt.Sprintf("duplicate final URL %s", resolved.FinalURL))
			return
		}
		lgr.Printf("[WARN] record success for article %d: %v", article.ID, err)
		return
	}
	lgr.Printf("[DEBUG] processed article %d: %s -> %s (%d words)",
		article.ID, article.SourceURL, resolved.FinalURL, meta.WordCount)
}

// recordError classifies a resolution error and persists either a scheduled
// retry or a terminal failure. Terminal failures keep the retry count as is,
// transient ones increment it and schedule the next attempt.
func (w *Worker) recordError(ctx context.Context, article *domain.Article, err error) {
	var resolveErr *resolve.Error
	retryable := errors.As(err, &resolveErr) && resolveErr.Retryable()

	if !retryable {
		w.failTerminal(ctx, article, err.Error())
		return
	}

	retryCount := article.RetryCount + 1
	if retryCount >= w.cfg.MaxRetries {
		w.failExhausted(ctx, article, retryCount, err.Error())
		return
	}

	next := w.now().UTC().Add(w.backoff(article.RetryCount))
	if recErr := w.store.RecordFailure(ctx, article.ID, retryCount, &next, err.Error(), false); recErr != nil {
		lgr.Printf("[WARN] record failure for article %d: %v", article.ID, recErr)
		return
	}
	lgr.Printf("[DEBUG] article %d failed (attempt %d/%d), retry at %s: %v",
		article.ID, retryCount, w.cfg.MaxRetries, next.Format(time.RFC3339), err)
}

func (w *Worker) failTerminal(ctx context.Context, article *domain.Article, msg string) {
	if err := w.store.RecordFailure(ctx, article.ID, article.RetryCount, nil, msg, true); err != nil {
		lgr.Printf("[WARN] record terminal failure for article %d: %v", article.ID, err)
		return
	}
	lgr.Printf("[INFO] article %d failed terminally: %s", article.ID, msg)
}

func (w *Worker) failExhausted(ctx context.Context, article *domain.Article, retryCount int, msg string) {
	if err := w.store.RecordFailure(ctx, article.ID, retryCount, nil, msg, true); err != nil {
		lgr.Printf("[WARN] record exhausted failure for article %d: %v", article.ID, err)
		return
	}
	lgr.Printf("[INFO] article %d failed after %d attempts: %s", article.ID, retryCount, msg)
}

// backoff computes the delay before the next attempt: base doubled per prior
// attempt, capped, with up to 10% jitter to spread retry bursts
func (w *Worker) backoff(priorAttempts int) time.Duration {
	delay := w.cfg.BaseDelay
	for i := 0; i < priorAttempts && delay < w.cfg.MaxDelay; i++ {
		delay *= 2
	}
	if delay > w.cfg.MaxDelay {
		delay = w.cfg.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/10 + 1)) //nolint:gosec // jitter needs no crypto rand
	return delay + jitter
}
