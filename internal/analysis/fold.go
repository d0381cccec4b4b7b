package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// newFolder returns a transformer that strips combining marks.
// Transformers are stateful, so one is built per call.
func newFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Fold lowercases s and removes diacritics ("Gravíssima" -> "gravissima").
func Fold(s string) string {
	if isASCII(s) {
		return strings.ToLower(s)
	}
	out, _, err := transform.String(newFolder(), s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// IndexFold returns the byte span in s of the first occurrence of substr,
// compared after folding both sides. Returns -1, -1 when absent.
func IndexFold(s, substr string) (start, end int) {
	needle := Fold(substr)
	if needle == "" {
		return -1, -1
	}

	folded, offsets := foldWithOffsets(s)
	i := strings.Index(folded, needle)
	if i < 0 {
		return -1, -1
	}
	start = offsets[i]
	j := i + len(needle)
	if j < len(offsets) {
		end = offsets[j]
	} else {
		end = len(s)
	}
	// A match ending inside a multi-byte fold maps to the next rune boundary.
	if end < start {
		end = start
	}
	return start, end
}

// ContainsFold reports whether substr occurs in s ignoring case and accents.
func ContainsFold(s, substr string) bool {
	start, _ := IndexFold(s, substr)
	return start >= 0
}

// foldWithOffsets folds s rune by rune. offsets[i] is the byte offset in s
// of the rune that produced byte i of the folded string.
func foldWithOffsets(s string) (string, []int) {
	var b strings.Builder
	b.Grow(len(s))
	offsets := make([]int, 0, len(s))

	for i, r := range s {
		var f string
		if r < utf8.RuneSelf {
			f = string(unicode.ToLower(r))
		} else {
			f = Fold(string(r))
		}
		for k := 0; k < len(f); k++ {
			offsets = append(offsets, i)
		}
		b.WriteString(f)
	}
	return b.String(), offsets
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
