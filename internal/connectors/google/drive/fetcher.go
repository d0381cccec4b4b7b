// Package drive fetches single files from Google Drive.
//
// Origins take the form gdrive://<fileID>. Google Docs and Slides are
// exported as plain text and Sheets as CSV; other files are downloaded
// as stored.
package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/Mg12345-web/IA-Babix/internal/connectors/google"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// Scheme is the origin scheme served by this package.
const Scheme = "gdrive"

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
	googleAppsPrefix     = "application/vnd.google-apps."
)

// DefaultMaxBytes caps a single downloaded file.
const DefaultMaxBytes = 32 << 20

var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher downloads Drive files.
type Fetcher struct {
	creds    google.Credentials
	extra    []option.ClientOption
	maxBytes int64
	quota    *google.Quota

	mu  sync.Mutex
	svc *drive.Service
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClientOptions appends API client options, e.g. a custom endpoint.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(f *Fetcher) { f.extra = append(f.extra, opts...) }
}

// WithMaxBytes caps the downloaded file size.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithQuota replaces the default Drive pacing.
func WithQuota(q *google.Quota) Option {
	return func(f *Fetcher) {
		if q != nil {
			f.quota = q
		}
	}
}

// New creates a Drive fetcher. The API client is built on first use.
func New(creds google.Credentials, opts ...Option) *Fetcher {
	f := &Fetcher{
		creds:    creds,
		maxBytes: DefaultMaxBytes,
		quota:    google.DriveQuota(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Scheme returns "gdrive".
func (f *Fetcher) Scheme() string {
	return Scheme
}

// Fetch downloads or exports one file.
func (f *Fetcher) Fetch(ctx context.Context, origin string) (*domain.RawDocument, error) {
	id, err := ParseOrigin(origin)
	if err != nil {
		return nil, err
	}

	svc, err := f.service(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", origin, err)
	}

	if err := f.quota.Wait(ctx); err != nil {
		return nil, fmt.Errorf("drive quota wait: %w", err)
	}
	file, err := svc.Files.Get(id).
		Fields("id", "name", "mimeType", "size", "modifiedTime", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, f.fail(origin, err)
	}

	if file.MimeType == MimeTypeFolder {
		return nil, fmt.Errorf("fetch %s: is a folder: %w", origin, domain.ErrInvalidInput)
	}
	if file.Size > f.maxBytes {
		return nil, &domain.FetchError{
			Origin: origin,
			Status: http.StatusRequestEntityTooLarge,
			Err:    fmt.Errorf("file is %d bytes, limit is %d", file.Size, f.maxBytes),
		}
	}

	mimeType := file.MimeType
	if err := f.quota.Wait(ctx); err != nil {
		return nil, fmt.Errorf("drive quota wait: %w", err)
	}

	var resp *http.Response
	if exportMime, ok := ExportFormat(file.MimeType); ok {
		logger.Debug("gdrive: exporting %s as %s", id, exportMime)
		resp, err = svc.Files.Export(id, exportMime).Context(ctx).Download()
		mimeType = exportMime
	} else if strings.HasPrefix(file.MimeType, googleAppsPrefix) {
		return nil, fmt.Errorf("fetch %s (%s): %w", origin, file.MimeType, domain.ErrUnsupportedType)
	} else {
		resp, err = svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	}
	if err != nil {
		return nil, f.fail(origin, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, &domain.FetchError{Origin: origin, Status: resp.StatusCode, Err: fmt.Errorf("read content: %w", err)}
	}

	return &domain.RawDocument{
		Origin:     origin,
		MIMEType:   mimeType,
		Content:    content,
		HTTPStatus: resp.StatusCode,
		Metadata: map[string]any{
			"file_id":       file.Id,
			"title":         file.Name,
			"web_link":      file.WebViewLink,
			"modified_time": file.ModifiedTime,
		},
	}, nil
}

func (f *Fetcher) service(ctx context.Context) (*drive.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.svc != nil {
		return f.svc, nil
	}

	var opts []option.ClientOption
	if !f.creds.Empty() {
		credOpts, err := f.creds.ClientOptions()
		if err != nil {
			return nil, err
		}
		opts = append(opts, credOpts...)
	} else if len(f.extra) == 0 {
		return nil, google.ErrNoCredentials
	}
	opts = append(opts, f.extra...)

	svc, err := google.NewDriveService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	f.svc = svc
	return svc, nil
}

func (f *Fetcher) fail(origin string, err error) error {
	if f.quota.Observe(err) {
		logger.Warn("gdrive: quota exhausted, pausing until %s", f.quota.PausedUntil().Format(time.TimeOnly))
	}
	return google.ToFetchError(origin, err)
}

// ExportFormat returns the export MIME type for Google Workspace files.
func ExportFormat(mimeType string) (string, bool) {
	switch mimeType {
	case MimeTypeGoogleDoc, MimeTypeGoogleSlides:
		return "text/plain", true
	case MimeTypeGoogleSheet:
		return "text/csv", true
	default:
		return "", false
	}
}

// ParseOrigin extracts the file ID from gdrive://<id> or gdrive://files/<id>.
func ParseOrigin(origin string) (string, error) {
	rest, ok := strings.CutPrefix(origin, Scheme+"://")
	if !ok {
		return "", fmt.Errorf("parse %q: missing %s:// prefix: %w", origin, Scheme, domain.ErrInvalidInput)
	}
	rest = strings.TrimPrefix(rest, "files/")
	rest = strings.Trim(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return "", fmt.Errorf("parse %q: expected a file ID: %w", origin, domain.ErrInvalidInput)
	}
	return rest, nil
}
