package services

import (
	"context"
	"fmt"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// WatchService re-ingests files as a watcher reports them.
type WatchService struct {
	watcher driven.Watcher
	ingest  driving.IngestService

	// onResult, when set, receives every ingest result.
	onResult func(domain.IngestResult)
}

// NewWatchService creates a watch service.
func NewWatchService(watcher driven.Watcher, ingest driving.IngestService) *WatchService {
	return &WatchService{watcher: watcher, ingest: ingest}
}

// OnResult registers a callback for ingest results.
func (w *WatchService) OnResult(fn func(domain.IngestResult)) {
	w.onResult = fn
}

// Run watches root until ctx is cancelled. Created and updated origins are
// ingested through a coalescer so bursts of events for one file collapse
// into at most one running pass plus one follow-up. Deletions are only
// logged: sources are never removed automatically.
func (w *WatchService) Run(ctx context.Context, root string) error {
	events, err := w.watcher.Watch(ctx, root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	logger.Info("Watching %s", root)

	coalescer := NewCoalescer(ctx, func(ctx context.Context, origin string) {
		result := w.ingest.IngestOrigin(ctx, origin)
		if w.onResult != nil {
			w.onResult(result)
		}
	})
	defer coalescer.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-events:
			if !ok {
				return nil
			}
			switch change.Type {
			case domain.ChangeDeleted:
				logger.Info("Removed %s (source kept)", change.Origin)
			default:
				logger.Debug("%s %s", change.Type, change.Origin)
				if !coalescer.Trigger(change.Origin) {
					logger.Debug("Coalesced trigger for %s", change.Origin)
				}
			}
		}
	}
}
