// Package extract parses article HTML into structured metadata and plain
// text. Extraction is a pure function of the input: it never fails, holds no
// state and degrades to empty fields on malformed markup.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Result holds Open Graph / Twitter Card / article metadata and the page's
// visible plain text. All metadata fields are nullable except Tags, Content
// and WordCount which are always present.
type Result struct {
	Title         *string  // og:title, falls back to <title>
	Description   *string  // og:description
	Image         *string  // og:image
	CanonicalURL  *string  // og:url
	SiteName      *string  // og:site_name
	TwitterImage  *string  // twitter:image
	Author        *string  // article:author, falls back to <meta name="author">
	PublishedTime *string  // article:published_time, opaque passthrough
	Section       *string  // article:section
	Tags          []string // all article:tag values in document order
	Content       string   // visible text, entities decoded, whitespace collapsed
	WordCount     int      // whitespace-delimited tokens in Content
}

// Extractor parses HTML documents. Stateless and safe for concurrent use.
type Extractor struct{}

// New creates an extractor
func New() *Extractor { return &Extractor{} }

// Extract parses the document and returns metadata plus plain-text content.
// Malformed input yields partial or empty fields, never an error. Input is
// held fully in memory; callers cap the size before parsing.
func (e *Extractor) Extract(htmlText string) *Result {
	res := &Result{Tags: []string{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		// the tolerant parser recovers from bad markup, this only triggers
		// on reader failures which cannot happen with a string reader
		return res
	}

	// drop script/style subtrees and comment nodes before any text walk so
	// their payloads never leak into content or the word count
	for _, root := range doc.Nodes {
		prune(root)
	}

	res.Title = firstOf(metaContent(doc, "og:title"), elementText(doc, "title"))
	res.Description = metaContent(doc, "og:description")
	res.Image = metaContent(doc, "og:image")
	res.CanonicalURL = metaContent(doc, "og:url")
	res.SiteName = metaContent(doc, "og:site_name")
	res.TwitterImage = metaContent(doc, "twitter:image")
	res.Author = firstOf(metaContent(doc, "article:author"), metaContent(doc, "author"))
	res.PublishedTime = metaContent(doc, "article:published_time")
	res.Section = metaContent(doc, "article:section")

	doc.Find(`meta[property="article:tag"], meta[name="article:tag"]`).Each(func(_ int, s *goquery.Selection) {
		if tag, ok := s.Attr("content"); ok && strings.TrimSpace(tag) != "" {
			res.Tags = append(res.Tags, tag)
		}
	})

	res.Content = visibleText(doc)
	res.WordCount = len(strings.Fields(res.Content))

	return res
}

// prune removes script elements, style elements and comment nodes in place
func prune(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && (c.Data == "script" || c.Data == "style"):
			n.RemoveChild(c)
		default:
			prune(c)
		}
	}
}

// metaContent returns the content of the first matching meta tag, checking
// both property and name attributes. Empty content counts as absent.
func metaContent(doc *goquery.Document, key string) *string {
	sel := doc.Find(`meta[property="` + key + `"], meta[name="` + key + `"]`).First()
	if content, ok := sel.Attr("content"); ok && strings.TrimSpace(content) != "" {
		return &content
	}
	return nil
}

// elementText returns the trimmed text of the first matching element
func elementText(doc *goquery.Document, selector string) *string {
	text := strings.TrimSpace(doc.Find(selector).First().Text())
	if text == "" {
		return nil
	}
	return &text
}

func firstOf(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

// visibleText concatenates the text of all remaining nodes under body,
// collapsing whitespace runs to single spaces. The tolerant parser always
// synthesizes a body and moves stray content into it.
func visibleText(doc *goquery.Document) string {
	body := doc.Find("body")
	var text string
	if body.Length() > 0 {
		text = body.Text()
	} else {
		text = doc.Text()
	}
	// entities are already decoded by the parser; Fields collapses all
	// unicode whitespace including nbsp
	return strings.Join(strings.Fields(text), " ")
}
