package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedsift/feedsift/pkg/domain"
	"github.com/feedsift/feedsift/pkg/extract"
	"github.com/feedsift/feedsift/pkg/repository"
	"github.com/feedsift/feedsift/pkg/resolve"
	"github.com/feedsift/feedsift/pkg/urlcheck"
	"github.com/feedsift/feedsift/pkg/worker/mocks"
)

const articleHTML = `<html><head>
<title>Fallback</title>
<meta property="og:title" content="Breaking News">
<meta property="article:tag" content="Tech">
</head><body><p>This is the article content.</p></body></html>`

func newTestWorker(resolver URLResolver, store ArticleProcessor) *Worker {
	return New(resolver, extract.New(), store, Config{
		MaxRetries: 3,
		BaseDelay:  time.Minute,
		MaxDelay:   time.Hour,
		MaxWorkers: 2,
		BatchSize:  10,
		ClaimTTL:   15 * time.Minute,
	})
}

func testFeed() *domain.Feed {
	return &domain.Feed{ID: 1, Topic: "tech", URL: "https://news.example.com/tech.xml", Limit: 10, Enabled: true}
}

func pendingArticle(id int64, retries int) *domain.Article {
	return &domain.Article{
		ID:         id,
		FeedID:     1,
		Topic:      "tech",
		SourceURL:  "https://redirect.example.com/a",
		Status:     domain.StatusPending,
		RetryCount: retries,
	}
}

func TestWorker_ProcessBatchSuccess(t *testing.T) {
	resolver := &mocks.URLResolverMock{
		ResolveFunc: func(ctx context.Context, entryURL string) (*resolve.Resolved, error) {
			return &resolve.Resolved{FinalURL: "https://news.example.com/story", Body: []byte(articleHTML), StatusCode: 200}, nil
		},
	}
	store := &mocks.ArticleProcessorMock{
		ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
			return []*domain.Article{pendingArticle(1, 0)}, nil
		},
		ExistsByFinalURLFunc: func(ctx context.Context, finalURL string, excludeID int64) (bool, error) {
			return false, nil
		},
		RecordSuccessFunc: func(ctx context.Context, articleID int64, finalURL string, meta *domain.Metadata) error {
			return nil
		},
	}

	w := newTestWorker(resolver, store)
	n, err := w.ProcessBatch(context.Background(), testFeed())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	calls := store.RecordSuccessCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(1), calls[0].ArticleID)
	assert.Equal(t, "https://news.example.com/story", calls[0].FinalURL)
	require.NotNil(t, calls[0].Meta.Title)
	assert.Equal(t, "Breaking News", *calls[0].Meta.Title)
	assert.Equal(t, []string{"Tech"}, calls[0].Meta.Tags)
	assert.Equal(t, 5, calls[0].Meta.WordCount)
	assert.Empty(t, store.RecordFailureCalls())
}

func TestWorker_ProcessBatchEmpty(t *testing.T) {
	store := &mocks.ArticleProcessorMock{
		ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
			return nil, nil
		},
	}
	w := newTestWorker(&mocks.URLResolverMock{}, store)
	n, err := w.ProcessBatch(context.Background(), testFeed())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWorker_ProcessBatchClaimLimit(t *testing.T) {
	store := &mocks.ArticleProcessorMock{
		ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
			return nil, nil
		},
	}
	w := newTestWorker(&mocks.URLResolverMock{}, store)

	feed := testFeed()
	feed.Limit = 3
	_, err := w.ProcessBatch(context.Background(), feed)
	require.NoError(t, err)

	// a feed without its own limit falls back to the configured batch size
	feed.Limit = 0
	_, err = w.ProcessBatch(context.Background(), feed)
	require.NoError(t, err)

	calls := store.ClaimBatchCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, 3, calls[0].Limit)
	assert.Equal(t, 10, calls[1].Limit)
}

func TestWorker_RetryableFailureSchedulesRetry(t *testing.T) {
	resolver := &mocks.URLResolverMock{
		ResolveFunc: func(ctx context.Context, entryURL string) (*resolve.Resolved, error) {
			return nil, &resolve.Error{Kind: resolve.KindTimeout, URL: entryURL}
		},
	}
	store := &mocks.ArticleProcessorMock{
		ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
			return []*domain.Article{pendingArticle(7, 0)}, nil
		},
		RecordFailureFunc: func(ctx context.Context, articleID int64, retryCount int, nextRetryAt *time.Time, errMsg string, terminal bool) error {
			return nil
		},
	}

	w := newTestWorker(resolver, store)
	before := time.Now().UTC()
	_, err := w.ProcessBatch(context.Background(), testFeed())
	require.NoError(t, err)

	calls := store.RecordFailureCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0].RetryCount)
	assert.False(t, calls[0].Terminal)
	require.NotNil(t, calls[0].NextRetryAt)
	// first retry: base delay plus at most 10% jitter
	delay := calls[0].NextRetryAt.Sub(before)
	assert.GreaterOrEqual(t, delay, time.Minute)
	assert.Less(t, delay, 2*time.Minute)
}

func TestWorker_BackoffGrowth(t *testing.T) {
	w := newTestWorker(&mocks.URLResolverMock{}, &mocks.ArticleProcessorMock{})

	first := w.backoff(0)
	assert.GreaterOrEqual(t, first, time.Minute)
	assert.Less(t, first, 2*time.Minute)

	second := w.backoff(1)
	assert.GreaterOrEqual(t, second, 2*time.Minute)

	// capped at MaxDelay plus jitter
	deep := w.backoff(20)
	assert.GreaterOrEqual(t, deep, time.Hour)
	assert.LessOrEqual(t, deep, time.Hour+7*time.Minute)
}

func TestWorker_ExhaustedRetriesTerminal(t *testing.T) {
	resolver := &mocks.URLResolverMock{
		ResolveFunc: func(ctx context.Context, entryURL string) (*resolve.Resolved, error) {
			return nil, &resolve.Error{Kind: resolve.KindConnectionFailed, URL: entryURL}
		},
	}
	store := &mocks.ArticleProcessorMock{
		ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
			return []*domain.Article{pendingArticle(7, 2)}, nil // attempt 3 of 3
		},
		RecordFailureFunc: func(ctx context.Context, articleID int64, retryCount int, nextRetryAt *time.Time, errMsg string, terminal bool) error {
			return nil
		},
	}

	w := newTestWorker(resolver, store)
	_, err := w.ProcessBatch(context.Background(), testFeed())
	require.NoError(t, err)

	calls := store.RecordFailureCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0].RetryCount)
	assert.True(t, calls[0].Terminal)
	assert.Nil(t, calls[0].NextRetryAt)
}

func TestWorker_ValidationRejectionTerminal(t *testing.T) {
	// a redirect hop landing on a private address fails immediately,
	// without consuming a retry attempt
	resolver := &mocks.URLResolverMock{
		ResolveFunc: func(ctx context.Context, entryURL string) (*resolve.Resolved, error) {
			return nil, &resolve.Error{
				Kind:   resolve.KindInvalidURL,
				Reject: urlcheck.Result{Reason: urlcheck.ReasonPrivateAddress, Detail: "127.0.0.1"},
				URL:    "http://127.0.0.1/admin",
			}
		},
	}
	store := &mocks.ArticleProcessorMock{
		ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
			return []*domain.Article{pendingArticle(3, 1)}, nil
		},
		RecordFailureFunc: func(ctx context.Context, articleID int64, retryCount int, nextRetryAt *time.Time, errMsg string, terminal bool) error {
			return nil
		},
	}

	w := newTestWorker(resolver, store)
	_, err := w.ProcessBatch(context.Background(), testFeed())
	require.NoError(t, err)

	calls := store.RecordFailureCalls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Terminal)
	assert.Equal(t, 1, calls[0].RetryCount, "retry count unchanged on terminal failure")
	assert.Nil(t, calls[0].NextRetryAt)
}

func TestWorker_DNSFailureRetryable(t *testing.T) {
	resolver := &mocks.URLResolverMock{
		ResolveFunc: func(ctx context.Context, entryURL string) (*resolve.Resolved, error) {
			return nil, &resolve.Error{
				Kind:   resolve.KindInvalidURL,
				Reject: urlcheck.Result{Reason: urlcheck.ReasonResolveFailed, Detail: "no such host"},
				URL:    entryURL,
			}
		},
	}
	store := &mocks.ArticleProcessorMock{
		ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
			return []*domain.Article{pendingArticle(3, 0)}, nil
		},
		RecordFailureFunc: func(ctx context.Context, articleID int64, retryCount int, nextRetryAt *time.Time, errMsg string, terminal bool) error {
			return nil
		},
	}

	w := newTestWorker(resolver, store)
	_, err := w.ProcessBatch(context.Background(), testFeed())
	require.NoError(t, err)

	calls := store.RecordFailureCalls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Terminal)
	require.NotNil(t, calls[0].NextRetryAt)
}

func TestWorker_DuplicateFinalURLTerminal(t *testing.T) {
	resolver := &mocks.URLResolverMock{
		ResolveFunc: func(ctx context.Context, entryURL string) (*resolve.Resolved, error) {
			return &resolve.Resolved{FinalURL: "https://news.example.com/story", Body: []byte(articleHTML)}, nil
		},
	}

	t.Run("caught by lookup", func(t *testing.T) {
		store := &mocks.ArticleProcessorMock{
			ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
				return []*domain.Article{pendingArticle(1, 0)}, nil
			},
			ExistsByFinalURLFunc: func(ctx context.Context, finalURL string, excludeID int64) (bool, error) {
				return true, nil
			},
			RecordFailureFunc: func(ctx context.Context, articleID int64, retryCount int, nextRetryAt *time.Time, errMsg string, terminal bool) error {
				return nil
			},
		}

		w := newTestWorker(resolver, store)
		_, err := w.ProcessBatch(context.Background(), testFeed())
		require.NoError(t, err)

		calls := store.RecordFailureCalls()
		require.Len(t, calls, 1)
		assert.True(t, calls[0].Terminal)
		assert.Contains(t, calls[0].ErrMsg, "duplicate final URL")
	})

	t.Run("caught by unique index", func(t *testing.T) {
		store := &mocks.ArticleProcessorMock{
			ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
				return []*domain.Article{pendingArticle(1, 0)}, nil
			},
			ExistsByFinalURLFunc: func(ctx context.Context, finalURL string, excludeID int64) (bool, error) {
				return false, nil
			},
			RecordSuccessFunc: func(ctx context.Context, articleID int64, finalURL string, meta *domain.Metadata) error {
				return repository.ErrDuplicateFinalURL
			},
			RecordFailureFunc: func(ctx context.Context, articleID int64, retryCount int, nextRetryAt *time.Time, errMsg string, terminal bool) error {
				return nil
			},
		}

		w := newTestWorker(resolver, store)
		_, err := w.ProcessBatch(context.Background(), testFeed())
		require.NoError(t, err)

		calls := store.RecordFailureCalls()
		require.Len(t, calls, 1)
		assert.True(t, calls[0].Terminal)
	})
}

func TestWorker_HTTPStatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		terminal bool
	}{
		{"server error retries", 503, false},
		{"rate limit retries", 429, false},
		{"not found terminal", 404, true},
		{"forbidden terminal", 403, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &mocks.URLResolverMock{
				ResolveFunc: func(ctx context.Context, entryURL string) (*resolve.Resolved, error) {
					return nil, &resolve.Error{Kind: resolve.KindHTTPError, Status: tt.status, URL: entryURL}
				},
			}
			store := &mocks.ArticleProcessorMock{
				ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
					return []*domain.Article{pendingArticle(1, 0)}, nil
				},
				RecordFailureFunc: func(ctx context.Context, articleID int64, retryCount int, nextRetryAt *time.Time, errMsg string, terminal bool) error {
					return nil
				},
			}

			w := newTestWorker(resolver, store)
			_, err := w.ProcessBatch(context.Background(), testFeed())
			require.NoError(t, err)

			calls := store.RecordFailureCalls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.terminal, calls[0].Terminal)
		})
	}
}

func TestWorker_CancelledContextReleasesClaims(t *testing.T) {
	resolver := &mocks.URLResolverMock{
		ResolveFunc: func(ctx context.Context, entryURL string) (*resolve.Resolved, error) {
			return &resolve.Resolved{FinalURL: "https://news.example.com/story", Body: []byte(articleHTML)}, nil
		},
	}
	store := &mocks.ArticleProcessorMock{
		ClaimBatchFunc: func(ctx context.Context, feedID int64, limit int, now time.Time, claimTTL time.Duration) ([]*domain.Article, error) {
			return []*domain.Article{pendingArticle(1, 0), pendingArticle(2, 0)}, nil
		},
		ReleaseClaimFunc: func(ctx context.Context, articleID int64) error {
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := newTestWorker(resolver, store)
	_, err := w.ProcessBatch(ctx, testFeed())
	require.NoError(t, err)
	assert.Len(t, store.ReleaseClaimCalls(), 2)
	assert.Empty(t, store.RecordSuccessCalls())
}
