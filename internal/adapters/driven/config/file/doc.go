// Package file provides the TOML-backed settings store.
//
// Settings live in config.toml inside the exporter's config directory
// (~/.notionexport unless overridden with --config).
package file
