package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Mg12345-web/IA-Babix/internal/analysis"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultSearchLimit is used when SearchOptions.Limit is not set.
const DefaultSearchLimit = 10

// Reasons reported with an insufficient-evidence response.
const (
	ReasonEmptyQuery = "empty query"
	ReasonNoTerms    = "query has no searchable terms"
	ReasonNoMatches  = "no indexed passage matches the query"
	ReasonLowScore   = "best match scored below the minimum score"
)

// SearchService ranks chunks and records against a query.
// It only reads, so any number of searches can run alongside ingestion.
type SearchService struct {
	docs        driven.DocumentStore
	records     driven.RecordStore
	sources     driven.SourceStore
	searchIndex driven.SearchEngine
	cfg         domain.RetrievalSettings
	minTokenLen int
}

// NewSearchService creates a new search service.
func NewSearchService(
	docs driven.DocumentStore,
	records driven.RecordStore,
	sources driven.SourceStore,
	searchIndex driven.SearchEngine,
	cfg domain.RetrievalSettings,
	minTokenLen int,
) *SearchService {
	if cfg.SnippetRadius <= 0 {
		cfg.SnippetRadius = analysis.DefaultSnippetRadius
	}
	if cfg.ProbePerSource <= 0 {
		cfg.ProbePerSource = domain.DefaultSettings().Retrieval.ProbePerSource
	}
	return &SearchService{
		docs:        docs,
		records:     records,
		sources:     sources,
		searchIndex: searchIndex,
		cfg:         cfg,
		minTokenLen: minTokenLen,
	}
}

// Search performs ranked lexical search across chunks and records.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)
	defer logger.Timer("search %q", query)()

	resp := &domain.SearchResponse{Query: query, Results: []domain.SearchResult{}}

	query = strings.TrimSpace(query)
	if query == "" {
		return insufficient(resp, ReasonEmptyQuery), nil
	}

	resp.Terms = analysis.Terms(query, s.minTokenLen)
	if len(resp.Terms) == 0 {
		return insufficient(resp, ReasonNoTerms), nil
	}
	logger.Debug("Terms: %v", resp.Terms)

	if s.searchIndex == nil {
		return nil, domain.ErrSearchUnavailable
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	// Request more results internally to account for dedup and filtering
	internalLimit := (opts.Offset + limit) * 2
	if len(opts.SourceIDs) > 0 {
		internalLimit = (opts.Offset + limit) * 3
		logger.Debug("Source filter: %v", opts.SourceIDs)
	}
	logger.Debug("Limit: %d, Offset: %d, Internal limit: %d", limit, opts.Offset, internalLimit)

	hits, err := s.searchIndex.Search(ctx, resp.Terms, internalLimit)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}
	logger.Debug("Raw results: %d hits", len(hits))

	if len(opts.SourceIDs) > 0 {
		hits = filterHits(hits, opts.SourceIDs)
		logger.Debug("After source filter: %d hits", len(hits))
	}

	results, err := s.hydrateResults(ctx, hits, resp.Terms)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}
	logger.Debug("Hydrated results: %d", len(results))

	if len(results) == 0 {
		return insufficient(resp, ReasonNoMatches), nil
	}
	if results[0].Score < s.cfg.MinScore {
		logger.Info("Best score %.3f below minimum %.3f", results[0].Score, s.cfg.MinScore)
		return insufficient(resp, ReasonLowScore), nil
	}

	resp.Results = applyPagination(results, opts.Offset, limit)
	logger.Info("Final results: %d", len(resp.Results))
	return resp, nil
}

// Probe returns chunks containing term as a literal, accent- and
// case-insensitive substring. Chunks are scanned in source and position
// order and at most PerSource matches are kept per source.
func (s *SearchService) Probe(
	ctx context.Context, term string, opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	logger.Section("Probe")

	resp := &domain.SearchResponse{Query: term, Results: []domain.SearchResult{}}
	term = strings.TrimSpace(term)
	if term == "" {
		return insufficient(resp, ReasonEmptyQuery), nil
	}
	resp.Terms = []string{term}

	perSource := opts.PerSource
	if perSource <= 0 {
		perSource = s.cfg.ProbePerSource
	}
	allowed := sourceSet(opts.SourceIDs)

	counts := make(map[string]int)
	var matches []domain.SearchResult
	err := s.docs.ScanChunks(ctx, func(c domain.Chunk) bool {
		if allowed != nil && !allowed[c.SourceID] {
			return true
		}
		if counts[c.SourceID] >= perSource {
			return true
		}
		if !analysis.ContainsFold(c.Content, term) {
			return true
		}
		counts[c.SourceID]++
		matches = append(matches, domain.SearchResult{
			SourceID: c.SourceID,
			Kind:     domain.EntryChunk,
			ChunkID:  c.ID,
			Position: c.Position,
			Snippet:  analysis.Snippet(c.Content, term, s.cfg.SnippetRadius),
			Score:    1,
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}

	// Sources are looked up after the scan so no store query runs while
	// the chunk cursor is open.
	lookup := s.sourceLookup(ctx)
	for i := range matches {
		if src := lookup(matches[i].SourceID); src != nil {
			matches[i].Origin = src.Origin
			matches[i].Title = src.Title
		}
	}

	if len(matches) == 0 {
		return insufficient(resp, ReasonNoMatches), nil
	}
	if opts.Limit > 0 {
		matches = applyPagination(matches, opts.Offset, opts.Limit)
	}
	resp.Results = matches
	logger.Info("Probe %q: %d matches", term, len(matches))
	return resp, nil
}

// hydrateResults turns engine hits into citeable results, dropping stale
// entries and duplicates.
func (s *SearchService) hydrateResults(
	ctx context.Context, hits []domain.SearchHit, terms []string,
) ([]domain.SearchResult, error) {
	results := make([]domain.SearchResult, 0, len(hits))
	seenIDs := make(map[string]bool, len(hits))
	seenSnippets := make(map[string]bool, len(hits))
	lookup := s.sourceLookup(ctx)

	for _, hit := range hits {
		// Marked seen only once accepted: a stale record entry from a source
		// that lost the code must not shadow the owner's entry.
		key := string(hit.Kind) + ":" + hit.ID
		if seenIDs[key] {
			continue
		}

		result := domain.SearchResult{
			SourceID: hit.SourceID,
			Kind:     hit.Kind,
			Position: hit.Position,
			Score:    hit.Score,
		}

		var text string
		switch hit.Kind {
		case domain.EntryRecord:
			rec, err := s.records.Get(ctx, hit.ID)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("get record %s: %w", hit.ID, err)
			}
			// A later source took over this code; its own entry is cited instead.
			if rec.SourceID != hit.SourceID {
				continue
			}
			result.RecordCode = rec.Code
			text = recordText(rec)
		default:
			chunk, err := s.docs.GetChunk(ctx, hit.ID)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("get chunk %s: %w", hit.ID, err)
			}
			result.ChunkID = chunk.ID
			text = chunk.Content
		}

		seenIDs[key] = true
		result.Snippet = analysis.Snippet(text, leadingTerm(text, terms), s.cfg.SnippetRadius)

		snippetKey := hit.SourceID + "\x00" + result.Snippet
		if seenSnippets[snippetKey] {
			continue
		}
		seenSnippets[snippetKey] = true

		if src := lookup(hit.SourceID); src != nil {
			result.Origin = src.Origin
			result.Title = src.Title
		}
		results = append(results, result)
	}

	return results, nil
}

// leadingTerm returns the first query term present in text, or the first
// term when none is.
func leadingTerm(text string, terms []string) string {
	for _, t := range terms {
		if analysis.ContainsFold(text, t) {
			return t
		}
	}
	if len(terms) > 0 {
		return terms[0]
	}
	return ""
}

// sourceLookup returns a memoised source getter.
func (s *SearchService) sourceLookup(ctx context.Context) func(id string) *domain.Source {
	cache := make(map[string]*domain.Source)
	return func(id string) *domain.Source {
		if src, ok := cache[id]; ok {
			return src
		}
		src, err := s.sources.Get(ctx, id)
		if err != nil {
			src = nil
		}
		cache[id] = src
		return src
	}
}

func insufficient(resp *domain.SearchResponse, reason string) *domain.SearchResponse {
	resp.Insufficient = true
	resp.Reason = reason
	resp.Results = []domain.SearchResult{}
	return resp
}

func sourceSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// filterHits keeps hits from the given sources.
func filterHits(hits []domain.SearchHit, sourceIDs []string) []domain.SearchHit {
	allowed := sourceSet(sourceIDs)
	filtered := make([]domain.SearchHit, 0, len(hits))
	for _, h := range hits {
		if allowed[h.SourceID] {
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// applyPagination applies offset and limit to results.
func applyPagination(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(results) {
		return []domain.SearchResult{}
	}

	end := offset + limit
	if end > len(results) {
		end = len(results)
	}

	return results[offset:end]
}
