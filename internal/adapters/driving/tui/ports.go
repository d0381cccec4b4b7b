// Package tui is the interactive terminal front end of babix: ranked search,
// ficha lookup and a view of what has been ingested.
package tui

import (
	"errors"

	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driving"
)

// Ports are the services the screens call into.
type Ports struct {
	Search  driving.SearchService
	Records driving.RecordService
	Source  driving.SourceService
}

// NewPorts bundles the services for NewApp.
func NewPorts(search driving.SearchService, records driving.RecordService, source driving.SourceService) *Ports {
	return &Ports{Search: search, Records: records, Source: source}
}

// Validate reports every missing service at once.
func (p *Ports) Validate() error {
	var errs []error
	if p.Search == nil {
		errs = append(errs, ErrMissingSearchService)
	}
	if p.Records == nil {
		errs = append(errs, ErrMissingRecordService)
	}
	if p.Source == nil {
		errs = append(errs, ErrMissingSourceService)
	}
	return errors.Join(errs...)
}
