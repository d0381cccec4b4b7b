// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Fetcher: Retrieves raw payloads by origin
//   - Normaliser: Transforms raw payloads into plain text
//   - NormaliserRegistry: Selects appropriate normaliser
//   - PostProcessor: Chunking pipeline stage
//   - Segmenter: Splits text into coded records
//   - SourceStore: Registry of ingested origins and content hashes
//   - DocumentStore: Document and chunk persistence
//   - RecordStore: Record persistence keyed by code
//   - SearchEngine: Ranked lexical search over chunks and records
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Lister, Watcher: Folder ingestion and change notification
//   - IngestMetrics: Ingestion telemetry
//   - SchedulerStore: Scheduler state. Without it, task history is not kept.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
