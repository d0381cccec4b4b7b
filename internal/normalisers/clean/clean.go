// Package clean holds whitespace and title helpers shared by normalisers.
package clean

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// Lines normalises line endings, collapses runs of spaces and tabs inside
// each line, trims every line and keeps at most one blank line between
// paragraphs.
func Lines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.FieldsFunc(line, isInlineSpace), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// NonEmptyLines is Lines without blank lines.
func NonEmptyLines(s string) string {
	lines := strings.Split(Lines(s), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Spaces collapses every run of whitespace, line breaks included, to a
// single space.
func Spaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Apply collapses whitespace according to mode.
func Apply(s string, mode domain.WhitespaceMode) string {
	if mode == domain.WhitespaceSpaces {
		return Spaces(s)
	}
	return Lines(s)
}

func isInlineSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\u00a0' || r == '\f' || r == '\v'
}

// TitleFromOrigin derives a human-readable title from a path or URL.
func TitleFromOrigin(origin string) string {
	name := origin
	if u, err := url.Parse(origin); err == nil && u.Scheme != "" && u.Host != "" {
		name = path.Base(strings.TrimSuffix(u.Path, "/"))
		if name == "" || name == "." || name == "/" {
			return u.Host
		}
	} else {
		name = filepath.Base(origin)
	}

	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}

// FirstLine returns the first non-empty line of s capped at max runes.
func FirstLine(s string, max int) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > max {
			line = strings.TrimSpace(string(r[:max]))
		}
		return line
	}
	return ""
}

// CopyMetadata creates a shallow copy of metadata.
func CopyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
