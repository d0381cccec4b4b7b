package filesystem

import "strings"

// Path converts a filesystem origin to a local path.
// Handles file:// URIs and bare paths.
func Path(origin string) string {
	if strings.HasPrefix(origin, "file://") {
		return strings.TrimPrefix(origin, "file://")
	}
	return origin
}
