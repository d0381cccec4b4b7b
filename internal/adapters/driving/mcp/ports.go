package mcp

import (
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides ranked search and probing.
	Search driving.SearchService

	// Records resolves record codes and free-text record queries.
	Records driving.RecordService

	// Source lists ingested sources.
	Source driving.SourceService

	// Ingest adds origins to the index. Optional; without it the ingest
	// tool reports an error.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Records == nil {
		return ErrMissingRecordService
	}
	return nil
}
