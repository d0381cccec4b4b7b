package domain

// RawDocument is the payload a fetcher returns before normalisation.
type RawDocument struct {
	// Origin is the URL, path or fetcher URI.
	Origin string

	// MIMEType is the declared or sniffed content type.
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// HTTPStatus is the response status for web origins.
	HTTPStatus int

	// Metadata contains fetcher-specific key-value pairs.
	Metadata map[string]any
}

// ChangeType represents the type of change reported by a watcher.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified document.
	ChangeUpdated

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// String returns a short label for logs.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is a watcher event for one origin.
type Change struct {
	Type   ChangeType
	Origin string
}
