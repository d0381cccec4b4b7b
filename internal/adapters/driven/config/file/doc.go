// Package file provides the TOML-backed ConfigStore.
//
// The file lives at <home>/config.toml (default ~/.babix). Nested tables
// are exposed as dot-notation keys, so [chunker] size = 200 is read with
// GetInt("chunker.size").
package file
