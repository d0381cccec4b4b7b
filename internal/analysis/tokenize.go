package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMinTokenLength drops connectors such as "de", "da", "em".
const DefaultMinTokenLength = 3

// Tokenize folds text and splits it on anything that is not a letter or a
// digit. Tokens shorter than minLen runes are dropped. Order and
// duplicates are preserved.
func Tokenize(text string, minLen int) []string {
	if minLen <= 0 {
		minLen = DefaultMinTokenLength
	}
	fields := strings.FieldsFunc(Fold(text), isSeparator)

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Terms tokenises a query and removes duplicate terms, keeping the first
// occurrence order.
func Terms(query string, minLen int) []string {
	tokens := Tokenize(query, minLen)
	seen := make(map[string]struct{}, len(tokens))
	terms := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}
	return terms
}

// TermFrequencies counts every token of text.
func TermFrequencies(text string, minLen int) (map[string]int, int) {
	tokens := Tokenize(text, minLen)
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf, len(tokens)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
