// Package mcp provides an MCP (Model Context Protocol) server adapter for Babix.
// It lets AI assistants cite indexed legal texts through search and record
// lookup tools.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingRecordService is returned when the record service is not provided.
var ErrMissingRecordService = errors.New("mcp: record service is required")
