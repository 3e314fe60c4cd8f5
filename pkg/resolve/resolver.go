// Package resolve follows a feed entry's redirect chain to the final article
// URL. Every hop is validated against the URL safety rules before it is
// followed, and the final response body is returned so the caller does not
// need a second round trip.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/feedsift/feedsift/pkg/urlcheck"
)

// Kind classifies a resolution failure
type Kind string

const (
	KindInvalidURL       Kind = "invalid_url"
	KindTooManyRedirects Kind = "too_many_redirects"
	KindConnectionFailed Kind = "connection_failed"
	KindTimeout          Kind = "timeout"
	KindHTTPError        Kind = "http_error"
)

// Error is a typed resolution failure. The worker maps it to retryable or
// terminal via Retryable.
type Error struct {
	Kind   Kind
	Status int             // set for KindHTTPError
	Reject urlcheck.Result // set for KindInvalidURL
	URL    string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPError:
		return fmt.Sprintf("resolve %s: http status %d", e.URL, e.Status)
	case KindInvalidURL:
		return fmt.Sprintf("resolve %s: rejected (%s): %s", e.URL, e.Reject.Reason, e.Reject.Detail)
	default:
		if e.Err != nil {
			return fmt.Sprintf("resolve %s: %s: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("resolve %s: %s", e.URL, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed. Timeouts,
// connection failures, redirect-budget overruns, 5xx and 429 responses and
// transient DNS failures are retryable; validation rejections and other
// client errors are terminal.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindConnectionFailed, KindTooManyRedirects:
		return true
	case KindHTTPError:
		return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
	case KindInvalidURL:
		return e.Reject.Retryable()
	}
	return false
}

// Resolved is a successful resolution: the final URL after all redirects
// plus the fetched HTML body.
type Resolved struct {
	FinalURL   string
	Body       []byte
	StatusCode int
}

// Validator classifies URLs as fetch-safe, consulted before the first
// request and again on every redirect hop
type Validator interface {
	Validate(ctx context.Context, rawURL string) urlcheck.Result
}

// Config holds resolver settings
type Config struct {
	Timeout     time.Duration // full request budget
	MaxHops     int           // redirect hop limit
	MaxBodySize int64         // response body cap in bytes
	UserAgent   string
}

// Resolver resolves redirecting feed URLs to their final destinations
type Resolver struct {
	client      *http.Client
	validator   Validator
	timeout     time.Duration
	maxBodySize int64
	userAgent   string
}

// New creates a resolver. The underlying client re-validates every redirect
// location before following it, so a chain that ends on a private address is
// rejected no matter how it got there.
func New(validator Validator, cfg Config) *Resolver {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxHops == 0 {
		cfg.MaxHops = 8
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = 10 * 1024 * 1024 // 10 MB
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "feedsift/1.0"
	}

	r := &Resolver{
		validator:   validator,
		timeout:     cfg.Timeout,
		maxBodySize: cfg.MaxBodySize,
		userAgent:   cfg.UserAgent,
	}

	r.client = &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxHops {
				return &Error{Kind: KindTooManyRedirects, URL: req.URL.String()}
			}
			if res := validator.Validate(req.Context(), req.URL.String()); !res.OK {
				return &Error{Kind: KindInvalidURL, Reject: res, URL: req.URL.String()}
			}
			return nil
		},
	}

	return r
}

// Resolve follows entryURL to its final destination and returns the final
// URL plus the response body. All failures are *Error.
func (r *Resolver) Resolve(ctx context.Context, entryURL string) (*Resolved, error) {
	// validate before any network access
	if res := r.validator.Validate(ctx, entryURL); !res.OK {
		return nil, &Error{Kind: KindInvalidURL, Reject: res, URL: entryURL}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entryURL, http.NoBody)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, Reject: urlcheck.Result{Reason: urlcheck.ReasonInvalidURL, Detail: err.Error()}, URL: entryURL, Err: err}
	}
	req.Header.Set("User-Agent", r.userAgent)
	addBrowserHeaders(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, r.classify(entryURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{Kind: KindHTTPError, Status: resp.StatusCode, URL: entryURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodySize))
	if err != nil {
		return nil, r.classify(entryURL, err)
	}

	return &Resolved{
		FinalURL:   resp.Request.URL.String(),
		Body:       body,
		StatusCode: resp.StatusCode,
	}, nil
}

// classify maps transport errors to typed resolution failures. Errors raised
// by CheckRedirect arrive wrapped in *url.Error and are passed through.
func (r *Resolver) classify(entryURL string, err error) *Error {
	var resolveErr *Error
	if errors.As(err, &resolveErr) {
		return resolveErr
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{Kind: KindTimeout, URL: entryURL, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, URL: entryURL, Err: err}
	}

	return &Error{Kind: KindConnectionFailed, URL: entryURL, Err: err}
}
