package connectors

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.Fetcher = (*Router)(nil)
	_ driven.Lister  = (*Router)(nil)
	_ driven.Watcher = (*Router)(nil)
)

// Router dispatches origins to fetchers by scheme. Origins without a
// scheme are local paths.
type Router struct {
	mu       sync.RWMutex
	fetchers map[string]driven.Fetcher
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{fetchers: make(map[string]driven.Fetcher)}
}

// Register adds a fetcher under its scheme and any aliases.
func (r *Router) Register(f driven.Fetcher, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fetchers[f.Scheme()] = f
	for _, a := range aliases {
		r.fetchers[a] = f
	}
}

// Schemes returns the registered schemes, sorted.
func (r *Router) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemes := make([]string, 0, len(r.fetchers))
	for s := range r.fetchers {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}

// Scheme returns "*": the router serves every registered scheme.
func (r *Router) Scheme() string {
	return "*"
}

// Fetch retrieves origin through the fetcher registered for its scheme.
func (r *Router) Fetch(ctx context.Context, origin string) (*domain.RawDocument, error) {
	f, err := r.lookup(origin)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, origin)
}

// List enumerates origins below root when the scheme's fetcher can list.
func (r *Router) List(ctx context.Context, root string) ([]string, error) {
	f, err := r.lookup(root)
	if err != nil {
		return nil, err
	}
	lister, ok := f.(driven.Lister)
	if !ok {
		return nil, fmt.Errorf("list %s: %s fetcher cannot list: %w", root, f.Scheme(), domain.ErrUnsupportedType)
	}
	return lister.List(ctx, root)
}

// Watch streams changes below root when the scheme's fetcher can watch.
func (r *Router) Watch(ctx context.Context, root string) (<-chan domain.Change, error) {
	f, err := r.lookup(root)
	if err != nil {
		return nil, err
	}
	watcher, ok := f.(driven.Watcher)
	if !ok {
		return nil, fmt.Errorf("watch %s: %s fetcher cannot watch: %w", root, f.Scheme(), domain.ErrUnsupportedType)
	}
	return watcher.Watch(ctx, root)
}

// Supports reports whether some fetcher serves origin's scheme.
func (r *Router) Supports(origin string) bool {
	_, err := r.lookup(origin)
	return err == nil
}

func (r *Router) lookup(origin string) (driven.Fetcher, error) {
	scheme := SchemeOf(origin)

	r.mu.RLock()
	f, ok := r.fetchers[scheme]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no fetcher for scheme %q: %w", scheme, domain.ErrUnsupportedType)
	}
	return f, nil
}

// SchemeOf returns the lower-cased scheme of origin, "file" for bare paths.
func SchemeOf(origin string) string {
	i := strings.Index(origin, "://")
	if i <= 0 {
		return "file"
	}
	return strings.ToLower(origin[:i])
}
