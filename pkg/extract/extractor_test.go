package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Metadata(t *testing.T) {
	e := New()

	htmlDoc := `<!DOCTYPE html>
		<html>
		<head>
			<title>Fallback Title</title>
			<meta property="og:title" content="Breaking News">
			<meta property="og:description" content="A short description">
			<meta property="og:image" content="https://cdn.example.com/img.jpg">
			<meta property="og:url" content="https://example.com/article">
			<meta property="og:site_name" content="Example News">
			<meta name="twitter:image" content="https://cdn.example.com/tw.jpg">
			<meta property="article:author" content="Jane Reporter">
			<meta property="article:published_time" content="2024-03-01T10:00:00Z">
			<meta property="article:section" content="World">
			<meta property="article:tag" content="Technology">
			<meta property="article:tag" content="AI">
		</head>
		<body><p>This is the article content.</p></body>
		</html>`

	res := e.Extract(htmlDoc)

	require.NotNil(t, res.Title)
	assert.Equal(t, "Breaking News", *res.Title)
	require.NotNil(t, res.Description)
	assert.Equal(t, "A short description", *res.Description)
	require.NotNil(t, res.Image)
	assert.Equal(t, "https://cdn.example.com/img.jpg", *res.Image)
	require.NotNil(t, res.CanonicalURL)
	assert.Equal(t, "https://example.com/article", *res.CanonicalURL)
	require.NotNil(t, res.SiteName)
	assert.Equal(t, "Example News", *res.SiteName)
	require.NotNil(t, res.TwitterImage)
	assert.Equal(t, "https://cdn.example.com/tw.jpg", *res.TwitterImage)
	require.NotNil(t, res.Author)
	assert.Equal(t, "Jane Reporter", *res.Author)
	require.NotNil(t, res.PublishedTime)
	assert.Equal(t, "2024-03-01T10:00:00Z", *res.PublishedTime)
	require.NotNil(t, res.Section)
	assert.Equal(t, "World", *res.Section)
	assert.Equal(t, []string{"Technology", "AI"}, res.Tags)
	assert.Equal(t, "This is the article content.", res.Content)
	assert.Equal(t, 5, res.WordCount)
}

func TestExtractor_TitleFallback(t *testing.T) {
	e := New()

	res := e.Extract(`<html><head><title>Basic Article</title></head><body><p>text</p></body></html>`)
	require.NotNil(t, res.Title)
	assert.Equal(t, "Basic Article", *res.Title)

	res = e.Extract(`<html><head></head><body><p>no title at all</p></body></html>`)
	assert.Nil(t, res.Title)
}

func TestExtractor_AuthorFallback(t *testing.T) {
	e := New()

	res := e.Extract(`<html><head><meta name="author" content="Generic Author"></head><body></body></html>`)
	require.NotNil(t, res.Author)
	assert.Equal(t, "Generic Author", *res.Author)

	// article:author wins over generic author
	res = e.Extract(`<html><head>
		<meta name="author" content="Generic Author">
		<meta property="article:author" content="Article Author">
	</head><body></body></html>`)
	require.NotNil(t, res.Author)
	assert.Equal(t, "Article Author", *res.Author)
}

func TestExtractor_ScriptStyleExcluded(t *testing.T) {
	e := New()

	res := e.Extract(`<html><body>
		<script>var SCRIPTMARKER = "should not appear";</script>
		<style>.STYLEMARKER { color: red; }</style>
		<p>Visible text.</p>
		<div><script type="application/ld+json">{"NESTEDMARKER": true}</script>more text</div>
		<!-- COMMENTMARKER -->
	</body></html>`)

	assert.NotContains(t, res.Content, "SCRIPTMARKER")
	assert.NotContains(t, res.Content, "STYLEMARKER")
	assert.NotContains(t, res.Content, "NESTEDMARKER")
	assert.NotContains(t, res.Content, "COMMENTMARKER")
	assert.Equal(t, "Visible text. more text", res.Content)
	assert.Equal(t, 4, res.WordCount)
}

func TestExtractor_MalformedHTML(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		html string
	}{
		{"empty input", ""},
		{"not html", "just some plain text"},
		{"unclosed tags", "<html><body><div><p>unclosed paragraph <span>and span"},
		{"garbage", "<<<>>><p att='>broken"},
		{"unknown tags", "<foo><bar>custom element text</bar></foo>"},
		{"truncated", `<html><head><meta property="og:title" content="Cut`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Extract(tt.html)
			require.NotNil(t, res, "extract never returns nil")
			assert.NotNil(t, res.Tags, "tags never nil")
			assert.GreaterOrEqual(t, res.WordCount, 0)
			assert.Equal(t, len(strings.Fields(res.Content)), res.WordCount)
		})
	}
}

func TestExtractor_SiblingsSurviveBadMarkup(t *testing.T) {
	e := New()

	// content after a malformed element must not be discarded
	res := e.Extract(`<html><body><p>before</p><div <broken>middle</div><p>after</p></body></html>`)
	assert.Contains(t, res.Content, "before")
	assert.Contains(t, res.Content, "after")
}

func TestExtractor_EntitiesAndWhitespace(t *testing.T) {
	e := New()

	res := e.Extract(`<html><body><p>Tom &amp; Jerry&nbsp;&mdash; a   classic
		show</p></body></html>`)
	assert.Equal(t, "Tom & Jerry — a classic show", res.Content)
	assert.Equal(t, 7, res.WordCount)
}

func TestExtractor_EmptyContent(t *testing.T) {
	e := New()

	res := e.Extract(`<html><head><meta property="og:title" content="Only Meta"></head><body></body></html>`)
	assert.Equal(t, "", res.Content)
	assert.Equal(t, 0, res.WordCount)
	assert.Equal(t, []string{}, res.Tags)
}

func TestExtractor_TagsDuplicatesPreserved(t *testing.T) {
	e := New()

	res := e.Extract(`<html><head>
		<meta property="article:tag" content="Go">
		<meta property="article:tag" content="News">
		<meta property="article:tag" content="Go">
	</head><body></body></html>`)
	assert.Equal(t, []string{"Go", "News", "Go"}, res.Tags)
}

func TestExtractor_EmptyMetaContentIgnored(t *testing.T) {
	e := New()

	res := e.Extract(`<html><head>
		<meta property="og:title" content="">
		<title>From Title Tag</title>
	</head><body></body></html>`)
	require.NotNil(t, res.Title)
	assert.Equal(t, "From Title Tag", *res.Title)
	assert.Nil(t, res.Description)
}

func TestExtractor_Deterministic(t *testing.T) {
	e := New()

	htmlDoc := `<html><head><meta property="og:title" content="Same"><meta property="article:tag" content="x"></head>
		<body><p>repeatable   text</p><script>noise()</script></body></html>`

	first := e.Extract(htmlDoc)
	second := e.Extract(htmlDoc)
	assert.Equal(t, first, second, "extraction is a pure function")
}

func TestExtractor_WordCountMatchesContent(t *testing.T) {
	e := New()

	inputs := []string{
		`<html><body><p>one two three</p></body></html>`,
		`<html><body></body></html>`,
		`<html><body>a<br>b<br>c d   e</body></html>`,
		`plain text no markup at all`,
	}
	for _, in := range inputs {
		res := e.Extract(in)
		assert.Equal(t, len(strings.Fields(res.Content)), res.WordCount)
	}
}

func TestExtractor_TitleTextExcludedFromContent(t *testing.T) {
	e := New()

	res := e.Extract(`<html><head><title>Head Title</title></head><body><p>body only</p></body></html>`)
	assert.Equal(t, "body only", res.Content)
}
