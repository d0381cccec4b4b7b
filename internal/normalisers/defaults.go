package normalisers

import (
	"github.com/Mg12345-web/IA-Babix/internal/normalisers/html"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers/pdf"
	"github.com/Mg12345-web/IA-Babix/internal/normalisers/plaintext"
)

// RegisterDefaults registers the built-in normalisers.
func RegisterDefaults(r *Registry) {
	r.Register(html.New())
	r.Register(pdf.New())
	r.Register(plaintext.New())
}
