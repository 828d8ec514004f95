// Package fetcher performs guarded, bounded HTTP fetches of HTML pages.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/contentiq/contentiq/pkg/urlguard"
)

// Kind classifies a fetch failure so callers can map kinds to retry or
// backoff strategies without inspecting library-specific error types.
type Kind int

const (
	KindValidationFailed Kind = iota
	KindTimeout
	KindConnectionFailed
	KindUpstreamStatus
	KindUnsupportedContentType
	KindResponseTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "validation_failed"
	case KindTimeout:
		return "timeout"
	case KindConnectionFailed:
		return "connection_failed"
	case KindUpstreamStatus:
		return "upstream_status"
	case KindUnsupportedContentType:
		return "unsupported_content_type"
	case KindResponseTooLarge:
		return "response_too_large"
	}
	return "unknown"
}

// FetchError is the single tagged error type returned by Fetch.
type FetchError struct {
	Kind       Kind
	StatusCode int // set for KindUpstreamStatus
	Err        error
	Message    string
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Page is a fetched HTML document.
type Page struct {
	HTML     string
	FinalURL string
	// ContentType is the declared Content-Type header of the final response.
	ContentType string
}

// userAgents is a small pool of realistic browser strings rotated across
// requests. Courtesy headers, not impersonation.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0",
}

// Fetcher issues guarded GET requests with redirect, size, and time bounds.
type Fetcher struct {
	guard        *urlguard.Guard
	client       *http.Client
	timeout      time.Duration
	maxRedirects int
	maxBytes     int64
	uaCounter    atomic.Uint64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the overall per-fetch budget, DNS included.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithMaxRedirects caps redirect following.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) { f.maxRedirects = n }
}

// WithMaxBytes caps the response body size.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBytes = n }
}

// WithTransport replaces the underlying transport. Used by tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) { f.client.Transport = rt }
}

// NewFetcher builds a Fetcher around the given guard.
func NewFetcher(guard *urlguard.Guard, opts ...Option) *Fetcher {
	f := &Fetcher{
		guard:        guard,
		timeout:      15 * time.Second,
		maxRedirects: 5,
		maxBytes:     10_000_000,
	}
	f.client = &http.Client{}
	for _, opt := range opts {
		opt(f)
	}
	f.client.CheckRedirect = f.checkRedirect
	return f
}

// checkRedirect caps hop count and re-validates every redirect target, so a
// public page cannot bounce the fetcher onto an internal address.
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	// via holds the initial request plus every followed redirect, so the
	// Nth redirect sees len(via) == N. A chain of exactly maxRedirects
	// hops is allowed; one more is not.
	if len(via) > f.maxRedirects {
		return fmt.Errorf("stopped after %d redirects", f.maxRedirects)
	}
	if _, err := f.guard.Validate(req.Context(), req.URL.String()); err != nil {
		return fmt.Errorf("redirect target rejected: %w", err)
	}
	return nil
}

func (f *Fetcher) nextUserAgent() string {
	n := f.uaCounter.Add(1)
	return userAgents[int(n)%len(userAgents)]
}

// Fetch validates url and performs a GET, returning the body and the final
// URL after redirects. All failures come back as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// Validation runs at fetch time, not just request-accept time, so a DNS
	// change between the two cannot point the fetch at an internal address.
	if _, err := f.guard.Validate(ctx, rawURL); err != nil {
		return nil, &FetchError{Kind: KindValidationFailed, Err: err, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindConnectionFailed, Err: err}
	}
	req.Header.Set("User-Agent", f.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Kind:       KindUpstreamStatus,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("the target URL returned HTTP %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" {
		lower := strings.ToLower(contentType)
		if !strings.Contains(lower, "html") && !strings.Contains(lower, "text") {
			return nil, &FetchError{
				Kind:    KindUnsupportedContentType,
				Message: fmt.Sprintf("URL returned non-HTML content type: %s", contentType),
			}
		}
	}

	// Read one byte past the cap to distinguish at-limit from over-limit.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, f.classifyTransportError(ctx, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, &FetchError{
			Kind:    KindResponseTooLarge,
			Message: fmt.Sprintf("response too large (>%d bytes); URL may not be an HTML page", f.maxBytes),
		}
	}

	return &Page{
		HTML:        string(body),
		FinalURL:    resp.Request.URL.String(),
		ContentType: contentType,
	}, nil
}

func (f *Fetcher) classifyTransportError(ctx context.Context, err error) *FetchError {
	// Redirect policy failures carry the guard's verdict through url.Error.
	var verr *urlguard.ValidationError
	if errors.As(err, &verr) {
		return &FetchError{Kind: KindValidationFailed, Err: verr, Message: verr.Error()}
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return &FetchError{
			Kind:    KindTimeout,
			Err:     err,
			Message: "the target URL took too long to respond",
		}
	}
	return &FetchError{
		Kind:    KindConnectionFailed,
		Err:     err,
		Message: "could not connect to the target URL",
	}
}
