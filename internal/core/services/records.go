package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Mg12345-web/IA-Babix/internal/analysis"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// Ensure RecordService implements the interface.
var _ driving.RecordService = (*RecordService)(nil)

// DefaultCodePattern matches record codes such as "596-70". Pattern sets
// that define query_code replace it.
var DefaultCodePattern = regexp.MustCompile(`\b\d{3}-\d{2}\b`)

// sentenceCandidates is how many ranked chunks the sentence fallback reads.
const sentenceCandidates = 5

// bodyPrefixMin is the shortest body prefix compared by similarity.
const bodyPrefixMin = 120

// RecordService resolves codes and free-text queries to records.
type RecordService struct {
	records     driven.RecordStore
	docs        driven.DocumentStore
	sources     driven.SourceStore
	searchIndex driven.SearchEngine

	codePattern *regexp.Regexp
	threshold   float64
	minTokenLen int
}

// NewRecordService creates a new record service.
// The search engine is optional; without it the sentence fallback is skipped.
func NewRecordService(
	records driven.RecordStore,
	docs driven.DocumentStore,
	sources driven.SourceStore,
	searchIndex driven.SearchEngine,
	threshold float64,
	minTokenLen int,
) *RecordService {
	return &RecordService{
		records:     records,
		docs:        docs,
		sources:     sources,
		searchIndex: searchIndex,
		codePattern: DefaultCodePattern,
		threshold:   threshold,
		minTokenLen: minTokenLen,
	}
}

// SetCodePattern replaces the pattern used to spot codes inside queries.
func (s *RecordService) SetCodePattern(re *regexp.Regexp) {
	if re != nil {
		s.codePattern = re
	}
}

// codeIn returns the code embedded in query: the first capture group of
// the code pattern, or the whole match when it has none.
func (s *RecordService) codeIn(query string) string {
	m := s.codePattern.FindStringSubmatch(query)
	switch {
	case m == nil:
		return ""
	case len(m) > 1 && m[1] != "":
		return m[1]
	default:
		return m[0]
	}
}

// GetRecord returns the record with exactly this code.
func (s *RecordService) GetRecord(ctx context.Context, code string) (*domain.Record, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	rec, err := s.records.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", code, err)
	}
	return rec, nil
}

// ListRecords returns every stored record ordered by code.
func (s *RecordService) ListRecords(ctx context.Context) ([]domain.Record, error) {
	return s.records.List(ctx)
}

// FindRecord tries, in order: a code embedded in the query, the most
// similar record title or body, and the best matching sentence from the
// top ranked chunks.
func (s *RecordService) FindRecord(ctx context.Context, query string) (*domain.RecordMatch, error) {
	logger.Section("Record Lookup")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}

	if code := s.codeIn(query); code != "" {
		rec, err := s.records.Get(ctx, code)
		switch {
		case err == nil:
			logger.Debug("Exact code match: %s", code)
			return &domain.RecordMatch{Record: rec, Method: domain.MatchByCode, Confidence: 1}, nil
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("get record %s: %w", code, err)
		}
		logger.Debug("Code %s not indexed, falling back to similarity", code)
	}

	match, err := s.bySimilarity(ctx, query)
	if err != nil {
		return nil, err
	}
	if match != nil {
		return match, nil
	}

	match, err = s.bySentence(ctx, query)
	if err != nil {
		return nil, err
	}
	if match != nil {
		return match, nil
	}

	return nil, domain.ErrInsufficientEvidence
}

func (s *RecordService) bySimilarity(ctx context.Context, query string) (*domain.RecordMatch, error) {
	all, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	folded := analysis.Fold(query)
	prefixLen := max(2*len([]rune(folded)), bodyPrefixMin)

	bestIdx, best := -1, 0.0
	for i := range all {
		score := analysis.Similarity(folded, analysis.Fold(all[i].Title))
		if body := runePrefix(analysis.Fold(all[i].Body), prefixLen); body != "" {
			score = max(score, analysis.Similarity(folded, body))
		}
		if score > best {
			bestIdx, best = i, score
		}
	}

	logger.Debug("Best similarity %.3f (threshold %.3f)", best, s.threshold)
	if bestIdx < 0 || best < s.threshold {
		return nil, nil
	}
	return &domain.RecordMatch{Record: &all[bestIdx], Method: domain.MatchBySimilarity, Confidence: best}, nil
}

func (s *RecordService) bySentence(ctx context.Context, query string) (*domain.RecordMatch, error) {
	if s.searchIndex == nil {
		return nil, nil
	}
	terms := analysis.Terms(query, s.minTokenLen)
	if len(terms) == 0 {
		return nil, nil
	}

	hits, err := s.searchIndex.Search(ctx, terms, sentenceCandidates*2)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var (
		bestSentence string
		bestSource   string
		best         float64
		read         int
	)
	for _, hit := range hits {
		if hit.Kind != domain.EntryChunk {
			continue
		}
		if read >= sentenceCandidates {
			break
		}
		chunk, err := s.docs.GetChunk(ctx, hit.ID)
		if err != nil {
			continue
		}
		read++

		for _, sentence := range analysis.SplitSentences(chunk.Content) {
			score := termOverlap(sentence, terms, s.minTokenLen)
			if score > best {
				best, bestSentence, bestSource = score, sentence, chunk.SourceID
			}
		}
	}

	if best == 0 {
		return nil, nil
	}

	match := &domain.RecordMatch{Method: domain.MatchBySentence, Confidence: best, Sentence: bestSentence}
	if src, err := s.sources.Get(ctx, bestSource); err == nil {
		match.SourceOrigin = src.Origin
	}
	return match, nil
}

// termOverlap is the share of terms present among the tokens of sentence.
func termOverlap(sentence string, terms []string, minLen int) float64 {
	tokens := make(map[string]bool)
	for _, t := range analysis.Tokenize(sentence, minLen) {
		tokens[t] = true
	}
	found := 0
	for _, t := range terms {
		if tokens[t] {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}

func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
