// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// An export runs in two phases. Discovery (Crawler) walks the reference
// graph from the root and fills a Registry; rendering (ExportWriter)
// writes one file per exportable registry entry plus an index.
// RetryingSource wraps a driven.Source with classified retries.
//
// Services depend only on domain, the ports and the logger.
package services
