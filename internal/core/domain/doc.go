// Package domain defines the core business entities for Babix.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: An ingested origin with its content hash and status
//   - Document: The normalised text of one source
//   - Chunk: A searchable, overlapping span of a document
//   - Record: A coded "ficha" segmented out of a document
//   - RawDocument: Opaque bytes from a fetcher
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
