package domain

import "time"

// ArticleStatus is the lifecycle state of an article in the pipeline
type ArticleStatus string

const (
	StatusPending ArticleStatus = "pending"
	StatusSuccess ArticleStatus = "success"
	StatusFailed  ArticleStatus = "failed"
)

// Article is the pipeline's primary entity. The feed-provided fields
// (Title, Description, Published, SourceName) are immutable once ingested;
// everything else is mutated only by the ingestion worker.
type Article struct {
	ID        int64
	FeedID    int64
	Topic     string
	SourceURL string // redirecting URL from the feed entry

	// raw feed entry data
	Title       string
	Description string
	Published   time.Time
	SourceName  string

	// resolution and extraction results
	FinalURL *string // nil until resolution succeeds, globally unique when set
	Status   ArticleStatus
	Metadata Metadata

	// failure bookkeeping
	RetryCount  int
	NextRetryAt *time.Time // set only for failed articles still eligible for retry
	LastError   string

	CreatedAt   time.Time
	ProcessedAt *time.Time
	UpdatedAt   time.Time
}

// Retryable reports whether the article is a failed row still scheduled
// for another attempt. Terminal failures have no NextRetryAt.
func (a *Article) Retryable() bool {
	return a.Status == StatusFailed && a.NextRetryAt != nil
}

// Metadata is the extraction result mapped into the article. All fields are
// nullable strings except Tags, Content and WordCount which are never absent.
type Metadata struct {
	Title         *string
	Description   *string
	Image         *string
	CanonicalURL  *string
	SiteName      *string
	TwitterImage  *string
	Author        *string
	PublishedTime *string // opaque, ISO-8601 expected but not enforced
	Section       *string
	Tags          []string
	Content       string
	WordCount     int
}

// Map returns the metadata as the fixed key set consumed by presentation
// layers. Tags is never nil, content never null, word_count never negative.
func (m *Metadata) Map() map[string]any {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"og:title":       m.Title,
		"og:description": m.Description,
		"og:image":       m.Image,
		"og:url":         m.CanonicalURL,
		"og:site_name":   m.SiteName,
		"twitter:image":  m.TwitterImage,
		"author":         m.Author,
		"published_time": m.PublishedTime,
		"section":        m.Section,
		"tags":           tags,
		"content":        m.Content,
		"word_count":     m.WordCount,
	}
}
