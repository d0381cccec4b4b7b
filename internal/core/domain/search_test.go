package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchResult_HeadingAndCitation(t *testing.T) {
	tests := []struct {
		name     string
		result   SearchResult
		heading  string
		citation string
	}{
		{
			name:     "record",
			result:   SearchResult{Kind: EntryRecord, RecordCode: "596-70", Title: "MBFT", Origin: "mbft.pdf", Position: 4},
			heading:  "Ficha 596-70",
			citation: "mbft.pdf",
		},
		{
			name:     "chunk",
			result:   SearchResult{Kind: EntryChunk, Title: "CTB", Origin: "ctb.html", Position: 0},
			heading:  "CTB",
			citation: "ctb.html §1",
		},
		{
			name:     "untitled chunk",
			result:   SearchResult{Kind: EntryChunk, Origin: "notas.txt", Position: 11},
			heading:  "notas.txt",
			citation: "notas.txt §12",
		},
		{
			name:     "record without code",
			result:   SearchResult{Kind: EntryRecord, Title: "MBFT", Origin: "mbft.pdf"},
			heading:  "MBFT",
			citation: "mbft.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.heading, tt.result.Heading())
			assert.Equal(t, tt.citation, tt.result.Citation())
		})
	}
}
