// Package memory provides an in-process inverted index with BM25 scoring.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/Mg12345-web/IA-Babix/internal/analysis"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

// BM25 parameters.
const (
	K1 = 1.2
	B  = 0.75
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

type document struct {
	hit    domain.SearchHit
	length int
}

// Engine is an inverted index held in memory. Searches take a read lock
// and may run concurrently with each other.
type Engine struct {
	scoring domain.ScoringMode
	minLen  int

	mu       sync.RWMutex
	docs     map[uint64]*document
	bySource map[string][]uint64
	postings map[string]map[uint64]int // term -> doc -> term frequency
	totalLen int
	nextSeq  uint64
}

// Option configures the engine.
type Option func(*Engine)

// WithScoring selects BM25 (default) or raw term-frequency scoring.
func WithScoring(mode domain.ScoringMode) Option {
	return func(e *Engine) {
		if mode.IsValid() {
			e.scoring = mode
		}
	}
}

// WithMinTokenLength sets the shortest indexed token in runes.
func WithMinTokenLength(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minLen = n
		}
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		scoring:  domain.ScoringBM25,
		minLen:   analysis.DefaultMinTokenLength,
		docs:     make(map[uint64]*document),
		bySource: make(map[string][]uint64),
		postings: make(map[string]map[uint64]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Index replaces every entry of sourceID. Readers see either the old or
// the new entries, never a mix.
func (e *Engine) Index(ctx context.Context, sourceID string, entries []domain.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Tokenise outside the lock.
	type prepared struct {
		entry  domain.IndexEntry
		tf     map[string]int
		length int
	}
	batch := make([]prepared, len(entries))
	for i, entry := range entries {
		tf, n := analysis.TermFrequencies(entry.Text, e.minLen)
		batch[i] = prepared{entry: entry, tf: tf, length: n}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.removeLocked(sourceID)

	keys := make([]uint64, 0, len(batch))
	for _, p := range batch {
		key := e.nextSeq
		e.nextSeq++

		e.docs[key] = &document{
			hit: domain.SearchHit{
				ID:       p.entry.ID,
				Kind:     p.entry.Kind,
				SourceID: sourceID,
				Position: p.entry.Position,
			},
			length: p.length,
		}
		e.totalLen += p.length
		for term, n := range p.tf {
			postings, ok := e.postings[term]
			if !ok {
				postings = make(map[uint64]int)
				e.postings[term] = postings
			}
			postings[key] = n
		}
		keys = append(keys, key)
	}
	if len(keys) > 0 {
		e.bySource[sourceID] = keys
	}
	return nil
}

// DeleteSource removes every entry of a source.
func (e *Engine) DeleteSource(_ context.Context, sourceID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(sourceID)
	return nil
}

func (e *Engine) removeLocked(sourceID string) {
	keys := e.bySource[sourceID]
	if len(keys) == 0 {
		return
	}
	removed := make(map[uint64]struct{}, len(keys))
	for _, key := range keys {
		if doc, ok := e.docs[key]; ok {
			e.totalLen -= doc.length
			delete(e.docs, key)
		}
		removed[key] = struct{}{}
	}
	for term, postings := range e.postings {
		for key := range postings {
			if _, ok := removed[key]; ok {
				delete(postings, key)
			}
		}
		if len(postings) == 0 {
			delete(e.postings, term)
		}
	}
	delete(e.bySource, sourceID)
}

// Search scores every entry containing at least one term. Ties keep
// insertion order.
func (e *Engine) Search(ctx context.Context, terms []string, limit int) ([]domain.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	n := float64(len(e.docs))
	if n == 0 {
		return nil, nil
	}
	avgLen := float64(e.totalLen) / n

	scores := make(map[uint64]float64)
	for _, term := range terms {
		postings := e.postings[term]
		if len(postings) == 0 {
			continue
		}
		df := float64(len(postings))
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		for key, tf := range postings {
			scores[key] += e.score(float64(tf), idf, float64(e.docs[key].length), avgLen)
		}
	}

	keys := make([]uint64, 0, len(scores))
	for key := range scores {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := scores[keys[i]], scores[keys[j]]
		if si != sj {
			return si > sj
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}

	hits := make([]domain.SearchHit, len(keys))
	for i, key := range keys {
		hits[i] = e.docs[key].hit
		hits[i].Score = scores[key]
	}
	return hits, nil
}

func (e *Engine) score(tf, idf, docLen, avgLen float64) float64 {
	if e.scoring == domain.ScoringTF {
		return tf
	}
	norm := 1 - B
	if avgLen > 0 {
		norm += B * docLen / avgLen
	}
	return idf * tf * (K1 + 1) / (tf + K1*norm)
}

// Count returns the number of indexed entries.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs)
}

// Close is a no-op.
func (e *Engine) Close() error {
	return nil
}
