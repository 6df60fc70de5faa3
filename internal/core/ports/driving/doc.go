// Package driving defines the interfaces that infrastructure calls IN to core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI calls these interfaces to run exports.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
