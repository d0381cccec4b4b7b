// Package bleve provides a persistent search engine backed by bleve.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/tokenizer/whitespace"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"

	"github.com/Mg12345-web/IA-Babix/internal/analysis"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

// IndexDir is the directory name of the index under the data directory.
const IndexDir = "index.bleve"

// foldedAnalyzer splits pre-folded text on whitespace only.
const foldedAnalyzer = "babix_folded"

// Field names.
const (
	fieldText     = "text"
	fieldEntryID  = "entry_id"
	fieldKind     = "kind"
	fieldSourceID = "source_id"
	fieldPosition = "position"
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// Engine wraps a bleve index.
type Engine struct {
	index  bleve.Index
	path   string
	minLen int

	// writeMu serialises the delete-then-index batches.
	writeMu sync.Mutex
}

// New opens the index at path, creating it when missing.
// An empty path creates an in-memory index.
func New(path string, minTokenLength int) (*Engine, error) {
	if minTokenLength <= 0 {
		minTokenLength = analysis.DefaultMinTokenLength
	}

	var (
		idx bleve.Index
		err error
	)
	switch {
	case path == "":
		idx, err = bleve.NewMemOnly(buildMapping())
	case exists(path):
		idx, err = bleve.Open(path)
	default:
		idx, err = bleve.New(path, buildMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open bleve index: %w", err)
	}

	return &Engine{index: idx, path: path, minLen: minTokenLength}, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	// Registration only fails for duplicate names.
	_ = im.AddCustomAnalyzer(foldedAnalyzer, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": whitespace.Name,
	})

	text := bleve.NewTextFieldMapping()
	text.Analyzer = foldedAnalyzer
	text.Store = false
	text.IncludeInAll = false

	kw := bleve.NewTextFieldMapping()
	kw.Analyzer = keyword.Name
	kw.IncludeInAll = false

	pos := bleve.NewNumericFieldMapping()
	pos.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(fieldText, text)
	doc.AddFieldMappingsAt(fieldEntryID, kw)
	doc.AddFieldMappingsAt(fieldKind, kw)
	doc.AddFieldMappingsAt(fieldSourceID, kw)
	doc.AddFieldMappingsAt(fieldPosition, pos)

	im.DefaultMapping = doc
	im.DefaultAnalyzer = foldedAnalyzer
	return im
}

func docID(sourceID string, e domain.IndexEntry) string {
	return string(e.Kind) + ":" + sourceID + ":" + e.ID
}

// Index replaces every entry of sourceID in one batch.
func (e *Engine) Index(ctx context.Context, sourceID string, entries []domain.IndexEntry) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	stale, err := e.sourceDocIDs(ctx, sourceID)
	if err != nil {
		return err
	}

	batch := e.index.NewBatch()
	for _, id := range stale {
		batch.Delete(id)
	}
	for _, entry := range entries {
		doc := map[string]interface{}{
			fieldText:     strings.Join(analysis.Tokenize(entry.Text, e.minLen), " "),
			fieldEntryID:  entry.ID,
			fieldKind:     string(entry.Kind),
			fieldSourceID: sourceID,
			fieldPosition: float64(entry.Position),
		}
		if err := batch.Index(docID(sourceID, entry), doc); err != nil {
			return fmt.Errorf("index entry %s: %w", entry.ID, err)
		}
	}

	if err := e.index.Batch(batch); err != nil {
		return fmt.Errorf("apply index batch: %w", err)
	}
	return nil
}

// DeleteSource removes every entry of a source.
func (e *Engine) DeleteSource(ctx context.Context, sourceID string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	stale, err := e.sourceDocIDs(ctx, sourceID)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	batch := e.index.NewBatch()
	for _, id := range stale {
		batch.Delete(id)
	}
	if err := e.index.Batch(batch); err != nil {
		return fmt.Errorf("delete source entries: %w", err)
	}
	return nil
}

func (e *Engine) sourceDocIDs(ctx context.Context, sourceID string) ([]string, error) {
	total, err := e.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	q := bleve.NewTermQuery(sourceID)
	q.SetField(fieldSourceID)
	req := bleve.NewSearchRequestOptions(q, int(total), 0, false)

	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("find source entries: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// Search runs a disjunction of term queries over the folded text.
func (e *Engine) Search(ctx context.Context, terms []string, limit int) ([]domain.SearchHit, error) {
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	disjuncts := make([]query.Query, 0, len(terms))
	for _, term := range terms {
		tq := bleve.NewTermQuery(term)
		tq.SetField(fieldText)
		disjuncts = append(disjuncts, tq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(disjuncts...), limit, 0, false)
	req.Fields = []string{fieldEntryID, fieldKind, fieldSourceID, fieldPosition}
	req.SortBy([]string{"-_score", fieldSourceID, fieldPosition})

	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("search index: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := domain.SearchHit{Score: h.Score}
		hit.ID, _ = h.Fields[fieldEntryID].(string)
		hit.SourceID, _ = h.Fields[fieldSourceID].(string)
		if kind, ok := h.Fields[fieldKind].(string); ok {
			hit.Kind = domain.EntryKind(kind)
		}
		if pos, ok := h.Fields[fieldPosition].(float64); ok {
			hit.Position = int(pos)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Count returns the number of indexed entries, or 0 if the count fails.
func (e *Engine) Count() int {
	n, err := e.index.DocCount()
	if err != nil {
		return 0
	}
	return int(n)
}

// Path returns the on-disk location, empty for in-memory indexes.
func (e *Engine) Path() string {
	return e.path
}

// Close closes the index.
func (e *Engine) Close() error {
	return e.index.Close()
}
