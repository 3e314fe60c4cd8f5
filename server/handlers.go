package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/feedsift/feedsift/pkg/domain"
	"github.com/feedsift/feedsift/pkg/repository"
)

// articleJSON is the API representation of an article. Metadata is present
// only for successfully processed articles, error fields only for failed ones.
type articleJSON struct {
	ID          int64          `json:"id"`
	Topic       string         `json:"topic"`
	SourceURL   string         `json:"source_url"`
	FinalURL    *string        `json:"final_url,omitempty"`
	Status      string         `json:"status"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Published   *time.Time     `json:"published,omitempty"`
	SourceName  string         `json:"source_name,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	RetryCount  int            `json:"retry_count,omitempty"`
	NextRetryAt *time.Time     `json:"next_retry_at,omitempty"`
	LastError   string         `json:"last_error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
}

func toArticleJSON(a *domain.Article) articleJSON {
	res := articleJSON{
		ID:          a.ID,
		Topic:       a.Topic,
		SourceURL:   a.SourceURL,
		FinalURL:    a.FinalURL,
		Status:      string(a.Status),
		Title:       a.Title,
		Description: a.Description,
		SourceName:  a.SourceName,
		RetryCount:  a.RetryCount,
		NextRetryAt: a.NextRetryAt,
		LastError:   a.LastError,
		CreatedAt:   a.CreatedAt,
		ProcessedAt: a.ProcessedAt,
	}
	if !a.Published.IsZero() {
		published := a.Published
		res.Published = &published
	}
	if a.Status == domain.StatusSuccess {
		res.Metadata = a.Metadata.Map()
	}
	return res
}

// feedJSON is the API representation of a topic feed
type feedJSON struct {
	ID            int64      `json:"id"`
	Topic         string     `json:"topic"`
	URL           string     `json:"url"`
	Limit         int        `json:"limit"`
	Enabled       bool       `json:"enabled"`
	LastProcessed *time.Time `json:"last_processed,omitempty"`
	ErrorCount    int        `json:"error_count,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// articlesHandler returns articles filtered by topic, status and limit
func (s *Server) articlesHandler(w http.ResponseWriter, r *http.Request) {
	filter := repository.ArticleFilter{
		Topic: r.URL.Query().Get("topic"),
		Limit: 50,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		switch domain.ArticleStatus(status) {
		case domain.StatusPending, domain.StatusSuccess, domain.StatusFailed:
			filter.Status = domain.ArticleStatus(status)
		default:
			RenderError(w, r, fmt.Errorf("invalid status %q", status), http.StatusBadRequest)
			return
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 500 {
			RenderError(w, r, fmt.Errorf("invalid limit %q", limitStr), http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	articles, err := s.articles.GetArticles(r.Context(), filter)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	res := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		res = append(res, toArticleJSON(a))
	}
	RenderJSON(w, r, http.StatusOK, map[string]any{"articles": res, "count": len(res)})
}

// articleHandler returns a single article by ID
func (s *Server) articleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid article id"), http.StatusBadRequest)
		return
	}

	article, err := s.articles.GetArticle(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RenderError(w, r, fmt.Errorf("article %d not found", id), http.StatusNotFound)
			return
		}
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusOK, toArticleJSON(article))
}

// feedsHandler returns all configured feeds
func (s *Server) feedsHandler(w http.ResponseWriter, r *http.Request) {
	feeds, err := s.feeds.GetFeeds(r.Context(), false)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	res := make([]feedJSON, 0, len(feeds))
	for _, f := range feeds {
		res = append(res, feedJSON{
			ID:            f.ID,
			Topic:         f.Topic,
			URL:           f.URL,
			Limit:         f.Limit,
			Enabled:       f.Enabled,
			LastProcessed: f.LastProcessed,
			ErrorCount:    f.ErrorCount,
			LastError:     f.LastError,
		})
	}
	RenderJSON(w, r, http.StatusOK, map[string]any{"feeds": res, "count": len(res)})
}

// refreshFeedHandler triggers an immediate fetch of a feed
func (s *Server) refreshFeedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid feed id"), http.StatusBadRequest)
		return
	}

	if err := s.scheduler.RefreshFeedNow(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RenderError(w, r, fmt.Errorf("feed %d not found", id), http.StatusNotFound)
			return
		}
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusAccepted, map[string]string{"result": "refresh started"})
}

// processFeedHandler triggers an immediate ingestion pass for a feed
func (s *Server) processFeedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RenderError(w, r, fmt.Errorf("invalid feed id"), http.StatusBadRequest)
		return
	}

	if err := s.scheduler.ProcessFeedNow(r.Context(), id); err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	RenderJSON(w, r, http.StatusAccepted, map[string]string{"result": "processing started"})
}

// statusHandler returns server status and per-state article counts
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := s.articles.CountByStatus(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"articles": map[string]int{
			"pending": counts[domain.StatusPending],
			"success": counts[domain.StatusSuccess],
			"failed":  counts[domain.StatusFailed],
		},
	}
	RenderJSON(w, r, http.StatusOK, status)
}
