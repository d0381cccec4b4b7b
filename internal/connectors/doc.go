// Package connectors provides the fetchers that retrieve raw documents
// from their origins. Each subpackage serves one origin scheme
// (filesystem, web, GitHub, Google Drive); the Router dispatches an
// origin to the fetcher registered for its scheme.
package connectors
