// Package web fetches http and https origins politely.
package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers"
	htmlnorm "github.com/Mg12345-web/IA-Babix/internal/normalisers/html"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the fetcher to remote servers.
	DefaultUserAgent = "BabixBot/1.0"

	// DefaultRequestsPerSecond is the sustained request rate.
	DefaultRequestsPerSecond = 2.0

	// DefaultMaxBytes caps a single response body.
	DefaultMaxBytes = 32 << 20
)

var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher downloads web pages and documents over HTTP.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBytes    int64
	limiter     *rate.Limiter
	readability bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBytes caps the response size.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithRate sets the sustained requests per second. Zero or less disables
// throttling.
func WithRate(rps float64) Option {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithReadability marks fetched HTML pages for main-article extraction.
func WithReadability(enabled bool) Option {
	return func(f *Fetcher) { f.readability = enabled }
}

// New creates a web fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxBytes,
		limiter:   rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Scheme returns "https". The router also routes plain http here.
func (f *Fetcher) Scheme() string {
	return "https"
}

// Fetch downloads one URL.
func (f *Fetcher) Fetch(ctx context.Context, origin string) (*domain.RawDocument, error) {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("fetch %s: not an http(s) URL: %w", origin, domain.ErrInvalidInput)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,text/plain;q=0.9,*/*;q=0.5")

	logger.Debug("GET %s", origin)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Origin: origin, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &domain.FetchError{
			Origin: origin,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &domain.FetchError{Origin: origin, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(content)) > f.maxBytes {
		return nil, &domain.FetchError{
			Origin: origin,
			Status: http.StatusRequestEntityTooLarge,
			Err:    fmt.Errorf("response exceeds %d bytes", f.maxBytes),
		}
	}

	mimeType := contentType(resp.Header.Get("Content-Type"), u.Path, content)
	metadata := map[string]any{
		"url":       origin,
		"final_url": resp.Request.URL.String(),
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		metadata["last_modified"] = lm
	}
	if f.readability && mimeType == "text/html" {
		metadata[htmlnorm.MetadataReadability] = true
	}

	return &domain.RawDocument{
		Origin:     origin,
		MIMEType:   mimeType,
		Content:    content,
		HTTPStatus: resp.StatusCode,
		Metadata:   metadata,
	}, nil
}

// contentType prefers the declared header, then the URL extension, then
// content sniffing.
func contentType(header, path string, content []byte) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	if mt := normalisers.MIMEFromExtension(path); mt != "" {
		return mt
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(content))
	return mt
}
