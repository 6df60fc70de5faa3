// Package sqlite provides the export manifest store.
//
// The store uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Each export run is recorded with every document the crawl
// discovered and every skip reported in the summary.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory (NNN_name.up.sql). Applied versions are tracked in
// schema_migrations.
package sqlite
