package domain

import "time"

// Feed represents a topic-based news feed source. The pipeline only reads
// topic, limit and enabled; the rest is bookkeeping owned by the admin layer.
type Feed struct {
	ID            int64
	Topic         string
	URL           string
	Limit         int // max articles claimed/ingested per run
	Enabled       bool
	LastProcessed *time.Time
	ErrorCount    int
	LastError     string
	CreatedAt     time.Time
}
