// Package filesystem fetches, lists and watches local files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers"
)

// Scheme is the origin scheme served by this connector.
const Scheme = "file"

// DefaultMaxBytes caps the size of a single file.
const DefaultMaxBytes = 32 << 20

// Verify interface compliance.
var (
	_ driven.Fetcher = (*Connector)(nil)
	_ driven.Lister  = (*Connector)(nil)
	_ driven.Watcher = (*Connector)(nil)
)

// Connector reads documents from the local filesystem.
type Connector struct {
	maxBytes int64

	mu       sync.Mutex
	watchers []*fsnotify.Watcher
	closed   bool
}

// New creates a filesystem connector. maxBytes <= 0 selects DefaultMaxBytes.
func New(maxBytes int64) *Connector {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Connector{maxBytes: maxBytes}
}

// Scheme returns "file".
func (c *Connector) Scheme() string {
	return Scheme
}

// Fetch reads one file.
func (c *Connector) Fetch(ctx context.Context, origin string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := Path(origin)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fsError(origin, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("fetch %s: is a directory: %w", origin, domain.ErrInvalidInput)
	}
	if info.Size() > c.maxBytes {
		return nil, &domain.FetchError{
			Origin: origin,
			Status: http.StatusRequestEntityTooLarge,
			Err:    fmt.Errorf("file is %d bytes, limit is %d", info.Size(), c.maxBytes),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fsError(origin, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, c.maxBytes))
	if err != nil {
		return nil, &domain.FetchError{Origin: origin, Err: err}
	}

	return &domain.RawDocument{
		Origin:   origin,
		MIMEType: DetectMIME(path, content),
		Content:  content,
		Metadata: map[string]any{
			"path":          path,
			"size":          info.Size(),
			"modified_time": info.ModTime(),
		},
	}, nil
}

// List walks root and returns every non-hidden file with a known document
// extension, sorted.
func (c *Connector) List(ctx context.Context, root string) ([]string, error) {
	root = Path(root)
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if normalisers.MIMEFromExtension(path) == "" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Watch reports file changes below root until ctx is cancelled.
// New subdirectories are watched as they appear.
func (c *Connector) Watch(ctx context.Context, root string) (<-chan domain.Change, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrConnectorClosed
	}
	c.mu.Unlock()

	root = Path(root)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addRecursive(watcher, root); err != nil {
		watcher.Close()
		return nil, err
	}

	c.mu.Lock()
	c.watchers = append(c.watchers, watcher)
	c.mu.Unlock()

	changes := make(chan domain.Change)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) && isDir(event.Name) && !isHidden(filepath.Base(event.Name)) {
					if err := addRecursive(watcher, event.Name); err != nil {
						logger.Warn("watch %s: %v", event.Name, err)
					}
					continue
				}
				change := handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch %s: %v", root, err)
			}
		}
	}()

	return changes, nil
}

// Close stops every active watcher.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	var errs []error
	for _, w := range c.watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.watchers = nil
	return errors.Join(errs...)
}

// handleFsEvent maps an fsnotify event to a change, or nil for events that
// do not concern a document.
func handleFsEvent(event fsnotify.Event) *domain.Change {
	if isHidden(filepath.Base(event.Name)) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.Change{Type: domain.ChangeDeleted, Origin: event.Name}
	case event.Has(fsnotify.Create):
		if isDir(event.Name) {
			return nil
		}
		return &domain.Change{Type: domain.ChangeCreated, Origin: event.Name}
	case event.Has(fsnotify.Write):
		if isDir(event.Name) {
			return nil
		}
		return &domain.Change{Type: domain.ChangeUpdated, Origin: event.Name}
	default:
		return nil
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// DetectMIME resolves a content type from the extension, sniffing the
// content when the extension is unknown.
func DetectMIME(path string, content []byte) string {
	if mt := normalisers.MIMEFromExtension(path); mt != "" {
		return mt
	}
	return http.DetectContentType(content)
}

func fsError(origin string, err error) error {
	status := 0
	switch {
	case errors.Is(err, fs.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		status = http.StatusForbidden
	}
	return &domain.FetchError{Origin: origin, Status: status, Err: err}
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
