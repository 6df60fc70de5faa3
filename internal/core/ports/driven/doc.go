// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Source: the remote document service (fetch, children, members)
//   - Renderer: converts content blocks to an output format
//   - FileWriter: output file writing
//   - ConfigStore: persistent settings
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ManifestStore: persists a record of each run
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or renderer package
package driven
