// Package normalisers turns raw payloads into clean plain text.
//
// Each subpackage knows how to extract text from a family of MIME types.
// The Registry selects one by MIME type and priority, applies the
// configured whitespace mode and rejects empty output with an
// ExtractionError.
package normalisers
