// Package sqlite provides a unified SQLite-based implementation of the
// store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database serves:
//
//   - SourceStore: registered origins, content hashes and fetch status
//   - DocumentStore: normalised documents and their chunks
//   - RecordStore: segmented records keyed by code
//   - SchedulerStore: scheduled task state and history
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.babix/data/babix.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. Document and record
// replacement run in a single transaction each, and WAL mode lets searches
// read while an ingest is writing.
package sqlite
