package feed

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/feedsift/feedsift/pkg/domain"
	"github.com/feedsift/feedsift/pkg/repository"
)

//go:generate moq -out mocks/feed_parser.go -pkg mocks -skip-ensure -fmt goimports . FeedParser
//go:generate moq -out mocks/article_store.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore

// FeedParser fetches and parses RSS/Atom feeds
type FeedParser interface {
	Parse(ctx context.Context, url string) (*domain.ParsedFeed, error)
}

// ArticleStore persists articles discovered in feeds
type ArticleStore interface {
	CreateArticle(ctx context.Context, article *domain.Article) error
	ArticleExists(ctx context.Context, sourceURL string) (bool, error)
}

// Ingestor turns feed entries into pending articles
type Ingestor struct {
	parser    FeedParser
	articles  ArticleStore
	sanitizer *bluemonday.Policy
}

// NewIngestor creates a feed ingestor
func NewIngestor(parser FeedParser, articles ArticleStore) *Ingestor {
	return &Ingestor{
		parser:    parser,
		articles:  articles,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Refresh fetches the feed and creates a pending article for each new entry,
// capped at the feed's per-fetch limit. Entries whose source URL is already
// known are skipped. Returns the number of articles created.
func (ing *Ingestor) Refresh(ctx context.Context, f *domain.Feed) (int, error) {
	parsed, err := ing.parser.Parse(ctx, f.URL)
	if err != nil {
		return 0, fmt.Errorf("parse feed %s: %w", f.URL, err)
	}

	sourceName := parsed.Title
	if sourceName == "" {
		sourceName = f.Topic
	}

	added := 0
	for _, item := range parsed.Items {
		if f.Limit > 0 && added >= f.Limit {
			break
		}
		if item.Link == "" {
			continue
		}

		exists, err := ing.articles.ArticleExists(ctx, item.Link)
		if err != nil {
			return added, fmt.Errorf("check article %s: %w", item.Link, err)
		}
		if exists {
			continue
		}

		article := &domain.Article{
			FeedID:      f.ID,
			Topic:       f.Topic,
			SourceURL:   item.Link,
			Title:       ing.clean(item.Title),
			Description: ing.clean(item.Description),
			Published:   item.Published,
			SourceName:  sourceName,
			Status:      domain.StatusPending,
		}

		if err := ing.articles.CreateArticle(ctx, article); err != nil {
			// another refresh may have inserted the same entry
			if errors.Is(err, repository.ErrDuplicateSourceURL) {
				continue
			}
			return added, fmt.Errorf("create article %s: %w", item.Link, err)
		}
		added++
	}

	lgr.Printf("[DEBUG] refreshed feed %s (%s): %d new of %d entries", f.Topic, f.URL, added, len(parsed.Items))
	return added, nil
}

// clean strips markup from feed-supplied text and normalizes whitespace
func (ing *Ingestor) clean(s string) string {
	sanitized := ing.sanitizer.Sanitize(s)
	unescaped := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(unescaped), " ")
}
