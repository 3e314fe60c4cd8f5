package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedsift/feedsift/pkg/domain"
	"github.com/feedsift/feedsift/pkg/feed/mocks"
	"github.com/feedsift/feedsift/pkg/repository"
)

func TestIngestor_Refresh(t *testing.T) {
	parsed := &domain.ParsedFeed{
		Title: "Example Wire",
		Items: []domain.ParsedItem{
			{Title: "First", Link: "https://news.example.com/first", Description: "first summary",
				Published: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
			{Title: "Second", Link: "https://news.example.com/second", Description: "second summary"},
			{Title: "No Link"},
		},
	}

	parser := &mocks.FeedParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.ParsedFeed, error) { return parsed, nil },
	}

	var created []*domain.Article
	store := &mocks.ArticleStoreMock{
		ArticleExistsFunc: func(ctx context.Context, sourceURL string) (bool, error) { return false, nil },
		CreateArticleFunc: func(ctx context.Context, article *domain.Article) error {
			created = append(created, article)
			return nil
		},
	}

	ing := NewIngestor(parser, store)
	f := &domain.Feed{ID: 1, Topic: "tech", URL: "https://news.example.com/feed.xml", Limit: 10}

	added, err := ing.Refresh(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 2, added, "entry without a link is skipped")
	require.Len(t, created, 2)

	first := created[0]
	assert.Equal(t, int64(1), first.FeedID)
	assert.Equal(t, "tech", first.Topic)
	assert.Equal(t, "https://news.example.com/first", first.SourceURL)
	assert.Equal(t, "First", first.Title)
	assert.Equal(t, "Example Wire", first.SourceName)
	assert.Equal(t, domain.StatusPending, first.Status)
}

func TestIngestor_RefreshLimit(t *testing.T) {
	items := make([]domain.ParsedItem, 10)
	for i := range items {
		items[i] = domain.ParsedItem{Title: "Item", Link: "https://news.example.com/" + string(rune('a'+i))}
	}
	parser := &mocks.FeedParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.ParsedFeed, error) {
			return &domain.ParsedFeed{Title: "Wire", Items: items}, nil
		},
	}
	store := &mocks.ArticleStoreMock{
		ArticleExistsFunc: func(ctx context.Context, sourceURL string) (bool, error) { return false, nil },
		CreateArticleFunc: func(ctx context.Context, article *domain.Article) error { return nil },
	}

	ing := NewIngestor(parser, store)
	added, err := ing.Refresh(context.Background(), &domain.Feed{Topic: "tech", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Len(t, store.CreateArticleCalls(), 3)
}

func TestIngestor_RefreshSkipsExisting(t *testing.T) {
	parser := &mocks.FeedParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.ParsedFeed, error) {
			return &domain.ParsedFeed{Title: "Wire", Items: []domain.ParsedItem{
				{Title: "Known", Link: "https://news.example.com/known"},
				{Title: "Fresh", Link: "https://news.example.com/fresh"},
				{Title: "Raced", Link: "https://news.example.com/raced"},
			}}, nil
		},
	}
	store := &mocks.ArticleStoreMock{
		ArticleExistsFunc: func(ctx context.Context, sourceURL string) (bool, error) {
			return sourceURL == "https://news.example.com/known", nil
		},
		CreateArticleFunc: func(ctx context.Context, article *domain.Article) error {
			if article.SourceURL == "https://news.example.com/raced" {
				return repository.ErrDuplicateSourceURL
			}
			return nil
		},
	}

	ing := NewIngestor(parser, store)
	added, err := ing.Refresh(context.Background(), &domain.Feed{Topic: "tech", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
}

func TestIngestor_RefreshSanitizesFeedText(t *testing.T) {
	parser := &mocks.FeedParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.ParsedFeed, error) {
			return &domain.ParsedFeed{Title: "Wire", Items: []domain.ParsedItem{{
				Title:       "<b>Bold</b> &amp; Clear",
				Link:        "https://news.example.com/x",
				Description: "<p>Para one.</p>\n\n<script>alert(1)</script>  Para two.",
			}}}, nil
		},
	}
	var got *domain.Article
	store := &mocks.ArticleStoreMock{
		ArticleExistsFunc: func(ctx context.Context, sourceURL string) (bool, error) { return false, nil },
		CreateArticleFunc: func(ctx context.Context, article *domain.Article) error { got = article; return nil },
	}

	ing := NewIngestor(parser, store)
	_, err := ing.Refresh(context.Background(), &domain.Feed{Topic: "tech", Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bold & Clear", got.Title)
	assert.Equal(t, "Para one. Para two.", got.Description)
}

func TestIngestor_RefreshParseError(t *testing.T) {
	parser := &mocks.FeedParserMock{
		ParseFunc: func(ctx context.Context, url string) (*domain.ParsedFeed, error) {
			return nil, errors.New("boom")
		},
	}
	store := &mocks.ArticleStoreMock{}

	ing := NewIngestor(parser, store)
	added, err := ing.Refresh(context.Background(), &domain.Feed{Topic: "tech", URL: "https://bad.example.com"})
	require.Error(t, err)
	assert.Zero(t, added)
	assert.Empty(t, store.CreateArticleCalls())
}
