package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

func TestLines(t *testing.T) {
	in := "  Art.   183 \r\n\r\n\r\n\tGravidade:\t gravíssima  \n\n\n\nfim\n"
	assert.Equal(t, "Art. 183\n\nGravidade: gravíssima\n\nfim", Lines(in))
}

func TestLines_Empty(t *testing.T) {
	assert.Equal(t, "", Lines(" \n\t\n "))
}

func TestNonEmptyLines(t *testing.T) {
	assert.Equal(t, "a\nb", NonEmptyLines("a\n\n\n b \n"))
}

func TestSpaces(t *testing.T) {
	assert.Equal(t, "a b c", Spaces(" a\n\n b\t c "))
}

func TestApply(t *testing.T) {
	assert.Equal(t, "a\nb", Apply("a \n b", domain.WhitespaceLines))
	assert.Equal(t, "a b", Apply("a \n b", domain.WhitespaceSpaces))
}

func TestTitleFromOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   string
	}{
		{"/docs/manual_fiscalizacao-2024.pdf", "manual fiscalizacao 2024"},
		{"https://www.gov.br/transito/resolucao-985.html", "resolucao 985"},
		{"https://www.gov.br/", "www.gov.br"},
		{"notas.txt", "notas"},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromOrigin(tt.origin))
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Título", FirstLine("\n\n  Título \ncorpo", 200))
	assert.Equal(t, "abc", FirstLine("abcdef", 3))
	assert.Equal(t, "", FirstLine(" \n ", 10))
}

func TestCopyMetadata(t *testing.T) {
	src := map[string]any{"a": 1}
	dst := CopyMetadata(src)
	dst["b"] = 2
	assert.Len(t, src, 1)
	assert.Equal(t, 1, dst["a"])
	assert.NotNil(t, CopyMetadata(nil))
}
