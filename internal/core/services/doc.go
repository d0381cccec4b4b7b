// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The write path lives in IngestService, the read path in SearchService
// and RecordService. Both share the stores and the search engine, which
// are constructed once at start-up and passed in.
package services
