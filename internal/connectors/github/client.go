package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes caps a single downloaded file.
	DefaultMaxBytes = 32 << 20
)

var (
	_ driven.Fetcher = (*Fetcher)(nil)
	_ driven.Lister  = (*Fetcher)(nil)
)

// Fetcher retrieves repository files through the GitHub contents API.
type Fetcher struct {
	gh       *gh.Client
	budget   *budget
	maxBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBaseURL points the client at another API root, e.g. GitHub
// Enterprise or a test server.
func WithBaseURL(raw string) Option {
	return func(f *Fetcher) {
		u, err := url.Parse(raw)
		if err != nil {
			logger.Warn("github: invalid base URL %q: %v", raw, err)
			return
		}
		if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
			u.Path += "/"
		}
		f.gh.BaseURL = u
	}
}

// WithRate sets the sustained request rate. Zero turns pacing off.
func WithRate(rps float64) Option {
	return func(f *Fetcher) { f.budget = newBudget(rps) }
}

// WithMaxBytes caps the downloaded file size.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// New creates a GitHub fetcher. An empty token uses anonymous access.
func New(ctx context.Context, token string, opts ...Option) *Fetcher {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = DefaultTimeout
	}

	f := &Fetcher{
		gh:       gh.NewClient(httpClient),
		budget:   newBudget(DefaultRate),
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Scheme returns "github".
func (f *Fetcher) Scheme() string {
	return Scheme
}

// Fetch downloads one file.
func (f *Fetcher) Fetch(ctx context.Context, origin string) (*domain.RawDocument, error) {
	loc, err := ParseOrigin(origin)
	if err != nil {
		return nil, err
	}
	if loc.Path == "" {
		return nil, fmt.Errorf("fetch %s: %w", origin, ErrIsDirectory)
	}

	if err := f.budget.wait(ctx); err != nil {
		return nil, fmt.Errorf("github quota wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: loc.Ref}
	file, dir, resp, err := f.gh.Repositories.GetContents(ctx, loc.Owner, loc.Repo, loc.Path, opts)
	f.budget.observe(resp, err)
	if err != nil {
		return nil, toFetchError(origin, resp, err)
	}
	if file == nil || dir != nil {
		return nil, fmt.Errorf("fetch %s: %w", origin, ErrIsDirectory)
	}
	if int64(file.GetSize()) > f.maxBytes {
		return nil, &domain.FetchError{
			Origin: origin,
			Status: http.StatusRequestEntityTooLarge,
			Err:    fmt.Errorf("file is %d bytes, limit is %d", file.GetSize(), f.maxBytes),
		}
	}

	content, err := f.contents(ctx, loc, file)
	if err != nil {
		return nil, toFetchError(origin, nil, err)
	}

	return &domain.RawDocument{
		Origin:     origin,
		MIMEType:   normalisers.MIMEFromExtension(loc.Path),
		Content:    content,
		HTTPStatus: http.StatusOK,
		Metadata: map[string]any{
			"owner":    loc.Owner,
			"repo":     loc.Repo,
			"path":     loc.Path,
			"sha":      file.GetSHA(),
			"size":     file.GetSize(),
			"html_url": file.GetHTMLURL(),
			"title":    file.GetName(),
		},
	}, nil
}

// contents decodes inline content, falling back to the download endpoint
// for files the contents API does not inline.
func (f *Fetcher) contents(ctx context.Context, loc Location, file *gh.RepositoryContent) ([]byte, error) {
	if file.GetEncoding() != "none" && (file.Content != nil || file.GetSize() == 0) {
		decoded, err := file.GetContent()
		if err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		return []byte(decoded), nil
	}

	if err := f.budget.wait(ctx); err != nil {
		return nil, fmt.Errorf("github quota wait: %w", err)
	}

	logger.Debug("github: downloading %s/%s/%s", loc.Owner, loc.Repo, loc.Path)
	rc, resp, err := f.gh.Repositories.DownloadContents(ctx, loc.Owner, loc.Repo, loc.Path,
		&gh.RepositoryContentGetOptions{Ref: loc.Ref})
	f.budget.observe(resp, err)
	if err != nil {
		return nil, fmt.Errorf("download contents: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read contents: %w", err)
	}
	return data, nil
}

// List returns origins for every document file below a repository
// directory, recursing into subdirectories.
func (f *Fetcher) List(ctx context.Context, root string) ([]string, error) {
	loc, err := ParseOrigin(root)
	if err != nil {
		return nil, err
	}

	var origins []string
	pending := []string{loc.Path}
	for len(pending) > 0 {
		path := pending[0]
		pending = pending[1:]

		if err := f.budget.wait(ctx); err != nil {
			return nil, fmt.Errorf("github quota wait: %w", err)
		}

		file, entries, resp, err := f.gh.Repositories.GetContents(ctx, loc.Owner, loc.Repo, path,
			&gh.RepositoryContentGetOptions{Ref: loc.Ref})
		f.budget.observe(resp, err)
		if err != nil {
			return nil, toFetchError(root, resp, err)
		}
		if file != nil {
			origins = append(origins, Location{Owner: loc.Owner, Repo: loc.Repo, Path: file.GetPath(), Ref: loc.Ref}.Origin())
			continue
		}

		for _, entry := range entries {
			switch entry.GetType() {
			case "dir":
				pending = append(pending, entry.GetPath())
			case "file":
				if normalisers.MIMEFromExtension(entry.GetPath()) == "" {
					continue
				}
				origins = append(origins, Location{Owner: loc.Owner, Repo: loc.Repo, Path: entry.GetPath(), Ref: loc.Ref}.Origin())
			}
		}
	}
	sort.Strings(origins)
	return origins, nil
}
