package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// chunkEntries converts chunks into index entries.
func chunkEntries(chunks []domain.Chunk) []domain.IndexEntry {
	entries := make([]domain.IndexEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = domain.IndexEntry{
			ID:       c.ID,
			Kind:     domain.EntryChunk,
			SourceID: c.SourceID,
			Position: c.Position,
			Text:     c.Content,
		}
	}
	return entries
}

// recordEntries converts records into index entries. A repeated code keeps
// only its last occurrence, matching what the record store holds, and
// entries are ordered by offset.
func recordEntries(records []domain.Record) []domain.IndexEntry {
	last := make(map[string]int, len(records))
	for i, r := range records {
		last[r.Code] = i
	}
	kept := make([]domain.Record, 0, len(last))
	for i, r := range records {
		if last[r.Code] == i {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Offset < kept[j].Offset })

	entries := make([]domain.IndexEntry, len(kept))
	for i, r := range kept {
		entries[i] = domain.IndexEntry{
			ID:       r.Code,
			Kind:     domain.EntryRecord,
			SourceID: r.SourceID,
			Position: i,
			Text:     recordText(&r),
		}
	}
	return entries
}

// recordText is the searchable text of a record.
func recordText(r *domain.Record) string {
	var b strings.Builder
	b.WriteString(r.Code)
	if r.Title != "" && !strings.HasPrefix(r.Body, r.Title) {
		b.WriteString(" ")
		b.WriteString(r.Title)
	}
	if r.Body != "" {
		b.WriteString(" ")
		b.WriteString(r.Body)
	}
	return b.String()
}

// RebuildIndex repopulates engine from the stored chunks and records.
// The memory engine is empty after a restart and needs this; the bleve
// engine can use it to recover from a lost index directory.
func RebuildIndex(
	ctx context.Context,
	docs driven.DocumentStore,
	records driven.RecordStore,
	engine driven.SearchEngine,
) (int, error) {
	logger.Section("Index Rebuild")

	stored, err := records.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list records: %w", err)
	}
	bySource := make(map[string][]domain.Record)
	for _, r := range stored {
		bySource[r.SourceID] = append(bySource[r.SourceID], r)
	}

	total := 0
	flush := func(sourceID string, chunks []domain.Chunk) error {
		entries := chunkEntries(chunks)
		entries = append(entries, recordEntries(bySource[sourceID])...)
		delete(bySource, sourceID)
		if err := engine.Index(ctx, sourceID, entries); err != nil {
			return &domain.IndexWriteError{SourceID: sourceID, Stage: "index", Err: err}
		}
		total += len(entries)
		logger.Debug("Rebuilt %d entries for source %s", len(entries), sourceID)
		return nil
	}

	var (
		current string
		pending []domain.Chunk
		flushErr error
	)
	err = docs.ScanChunks(ctx, func(c domain.Chunk) bool {
		if c.SourceID != current && len(pending) > 0 {
			if flushErr = flush(current, pending); flushErr != nil {
				return false
			}
			pending = nil
		}
		current = c.SourceID
		pending = append(pending, c)
		return true
	})
	if err != nil {
		return total, fmt.Errorf("scan chunks: %w", err)
	}
	if flushErr != nil {
		return total, flushErr
	}
	if len(pending) > 0 {
		if err := flush(current, pending); err != nil {
			return total, err
		}
	}

	// Sources that only have records.
	remaining := make([]string, 0, len(bySource))
	for id := range bySource {
		remaining = append(remaining, id)
	}
	sort.Strings(remaining)
	for _, id := range remaining {
		if err := flush(id, nil); err != nil {
			return total, err
		}
	}

	logger.Info("Index rebuilt: %d entries", total)
	return total, nil
}
