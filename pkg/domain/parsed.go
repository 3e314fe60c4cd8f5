package domain

import "time"

// ParsedFeed represents a fetched and parsed RSS/Atom feed
type ParsedFeed struct {
	Title       string
	Description string
	Link        string
	Items       []ParsedItem
}

// ParsedItem represents a single entry from a parsed feed
type ParsedItem struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Author      string
	Published   time.Time
}
