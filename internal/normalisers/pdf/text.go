package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Quality summarises how usable an extracted text layer is.
type Quality struct {
	PageCount       int
	CharsPerPage    float64
	PrintableRatio  float64
	HasImageStreams bool
}

// NeedsOCR reports an image-only or garbled text layer.
func (q Quality) NeedsOCR() bool {
	return (q.CharsPerPage < 50 && q.HasImageStreams) || q.PrintableRatio < 0.85
}

// String implements fmt.Stringer for diagnostics.
func (q Quality) String() string {
	return fmt.Sprintf("pages=%d chars/page=%.1f printable=%.2f images=%t",
		q.PageCount, q.CharsPerPage, q.PrintableRatio, q.HasImageStreams)
}

// stringLiteral matches PDF string literals in parentheses, escapes included.
var stringLiteral = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

// TextFromStream decodes the text-showing operators of a content stream.
// Text objects and line moves become line breaks; positioning becomes a space.
func TextFromStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			writeLiterals(&sb, line)
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			sb.WriteByte('\n')
			writeLiterals(&sb, line)
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			sb.WriteByte(' ')
		case bytes.Equal(line, []byte("T*")), bytes.Equal(line, []byte("ET")):
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func writeLiterals(sb *strings.Builder, line []byte) {
	for _, m := range stringLiteral.FindAllSubmatch(line, -1) {
		sb.WriteString(decodeString(m[1]))
	}
}

// decodeString handles PDF escape sequences. Bytes are read as
// PDFDocEncoding, which matches Latin-1 for printable text.
func decodeString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteRune(rune(c))
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b', 'f':
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			val := int(raw[i] - '0')
			for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteRune(rune(val & 0xFF))
		}
	}
	return sb.String()
}

// printableRatio is the share of printable runes in text.
func printableRatio(text string) float64 {
	total, printable := 0, 0
	for _, r := range text {
		total++
		switch {
		case r >= 0xE000 && r <= 0xF8FF, r == unicode.ReplacementChar:
		case unicode.IsPrint(r), r == '\n', r == '\r', r == '\t':
			printable++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(printable) / float64(total)
}
