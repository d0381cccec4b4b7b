package analysis

import (
	"strings"
	"unicode"
)

// abbreviations are tokens after which a period does not end a sentence.
var abbreviations = map[string]bool{
	"art": true, "arts": true, "inc": true, "n": true, "nº": true,
	"par": true, "al": true, "fl": true, "sr": true, "sra": true,
}

// SplitSentences splits content on sentence terminators followed by
// whitespace, and on line breaks. Periods after legal abbreviations such
// as "Art." are kept inside the sentence.
func SplitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	rs := []rune(content)
	for i, r := range rs {
		current.WriteRune(r)

		boundary := false
		switch r {
		case '\n':
			boundary = true
		case '!', '?', ';':
			boundary = i+1 == len(rs) || unicode.IsSpace(rs[i+1])
		case '.':
			boundary = (i+1 == len(rs) || unicode.IsSpace(rs[i+1])) &&
				!abbreviations[Fold(lastWord(current.String()))]
		}
		if !boundary {
			continue
		}
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// lastWord returns the word before a trailing period.
func lastWord(s string) string {
	s = strings.TrimSuffix(s, ".")
	if i := strings.LastIndexFunc(s, unicode.IsSpace); i >= 0 {
		s = s[i+1:]
	}
	return s
}
