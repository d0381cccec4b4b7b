// Package segmenter splits normalised text into coded records ("fichas").
//
// A record starts at a code matched by the pattern set's code regex and
// runs up to the next code or the end of the text. Labelled fields such as
// "Gravidade:" are extracted from the record body by secondary patterns.
// Segmentation keeps duplicates in document order; the record store
// resolves them with last-write-wins.
package segmenter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Mg12345-web/IA-Babix/internal/analysis"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

const (
	defaultMinRecordLength = 30
	defaultTitleMaxLength  = 160

	// valueCutset is trimmed from both ends of field values and titles.
	valueCutset = " \t\r\n;,.:-–"
)

// Segmenter applies one compiled pattern set.
type Segmenter struct {
	set    domain.PatternSet
	code   *regexp.Regexp
	query  *regexp.Regexp
	fields []compiledField
}

var _ driven.Segmenter = (*Segmenter)(nil)

type compiledField struct {
	name         string
	label        *regexp.Regexp
	includeLabel bool
}

// labelHit is one label occurrence inside a record body.
type labelHit struct {
	field      int
	start, end int
}

// New compiles a pattern set.
func New(set domain.PatternSet) (*Segmenter, error) {
	if set.Code == "" {
		return nil, fmt.Errorf("pattern set %q: empty code pattern: %w", set.Name, domain.ErrInvalidInput)
	}
	code, err := regexp.Compile(set.Code)
	if err != nil {
		return nil, fmt.Errorf("pattern set %q: compile code: %w", set.Name, err)
	}

	if set.MinRecordLength <= 0 {
		set.MinRecordLength = defaultMinRecordLength
	}
	if set.TitleMaxLength <= 0 {
		set.TitleMaxLength = defaultTitleMaxLength
	}

	s := &Segmenter{set: set, code: code}
	if set.QueryCode != "" {
		if s.query, err = regexp.Compile(set.QueryCode); err != nil {
			return nil, fmt.Errorf("pattern set %q: compile query code: %w", set.Name, err)
		}
	}
	for _, f := range set.Fields {
		label, err := regexp.Compile("(?i)" + f.Label)
		if err != nil {
			return nil, fmt.Errorf("pattern set %q: compile field %s: %w", set.Name, f.Name, err)
		}
		s.fields = append(s.fields, compiledField{name: f.Name, label: label, includeLabel: f.IncludeLabel})
	}
	return s, nil
}

// PatternSet returns the name of the active pattern set.
func (s *Segmenter) PatternSet() string {
	return s.set.Name
}

// Version returns the version of the active pattern set.
func (s *Segmenter) Version() int {
	return s.set.Version
}

// QueryPattern returns the compiled query_code regex, or nil when the set
// does not define one.
func (s *Segmenter) QueryPattern() *regexp.Regexp {
	return s.query
}

// Segment splits doc into records.
func (s *Segmenter) Segment(doc *domain.Document) ([]domain.Record, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	records := s.Split(doc.Content)
	for i := range records {
		records[i].SourceID = doc.SourceID
		records[i].DocumentID = doc.ID
	}

	if len(records) == 0 && s.expectsRecords(doc) {
		return nil, &domain.SegmentationWarning{Origin: doc.Origin, PatternSet: s.set.Name}
	}
	return records, nil
}

// Split segments raw text without document bookkeeping.
func (s *Segmenter) Split(text string) []domain.Record {
	matches := s.code.FindAllStringSubmatchIndex(text, -1)

	var records []domain.Record //nolint:prealloc // short records are discarded
	for i, m := range matches {
		spanEnd := len(text)
		if i+1 < len(matches) {
			spanEnd = matches[i+1][0]
		}

		span := strings.TrimSpace(text[m[0]:spanEnd])
		if utf8.RuneCountInString(span) < s.set.MinRecordLength {
			continue
		}

		code := text[m[0]:m[1]]
		if len(m) >= 4 && m[2] >= 0 {
			code = text[m[2]:m[3]]
		}

		body := strings.TrimSpace(text[m[1]:spanEnd])
		rec := domain.Record{
			Code:   code,
			Body:   body,
			Offset: m[0],
		}

		hits := s.findLabels(body)
		for _, f := range s.extractFields(body, hits) {
			rec.SetField(f.name, f.value)
		}
		rec.Title = s.title(code, body, hits)

		records = append(records, rec)
	}
	return records
}

// findLabels returns every label occurrence in body, ordered by position.
func (s *Segmenter) findLabels(body string) []labelHit {
	var hits []labelHit
	for i, f := range s.fields {
		for _, loc := range f.label.FindAllStringIndex(body, -1) {
			hits = append(hits, labelHit{field: i, start: loc[0], end: loc[1]})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].start < hits[b].start })
	return hits
}

type fieldValue struct {
	name  string
	value string
}

// extractFields reads the first occurrence of every field. A value ends at
// the next label of any field, at the end of its line or at the end of body.
func (s *Segmenter) extractFields(body string, hits []labelHit) []fieldValue {
	done := make(map[int]bool, len(s.fields))
	var out []fieldValue

	for i, h := range hits {
		if done[h.field] {
			continue
		}
		done[h.field] = true

		from := h.end
		if s.fields[h.field].includeLabel {
			from = h.start
		}

		to := len(body)
		for _, next := range hits[i+1:] {
			if next.start >= h.end {
				to = next.start
				break
			}
		}
		if nl := strings.IndexByte(body[h.end:], '\n'); nl >= 0 && h.end+nl < to {
			to = h.end + nl
		}

		value := strings.Trim(body[from:to], valueCutset)
		if value != "" {
			out = append(out, fieldValue{name: s.fields[h.field].name, value: value})
		}
	}
	return out
}

// title is the text before the first label on the first line of body.
func (s *Segmenter) title(code, body string, hits []labelHit) string {
	line := body
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	if len(hits) > 0 && hits[0].start < len(line) {
		line = line[:hits[0].start]
	}

	title := strings.Trim(line, valueCutset)
	if utf8.RuneCountInString(title) > s.set.TitleMaxLength {
		title = strings.TrimSpace(string([]rune(title)[:s.set.TitleMaxLength]))
	}
	if title == "" {
		return "Ficha " + code
	}
	return title
}

// expectsRecords reports whether the document looks like one of the
// set's expected record sources.
func (s *Segmenter) expectsRecords(doc *domain.Document) bool {
	haystack := analysis.Fold(doc.Origin + " " + doc.Title)
	for _, hint := range s.set.Expected {
		if hint != "" && strings.Contains(haystack, analysis.Fold(hint)) {
			return true
		}
	}
	return false
}
