// Package config holds the top-level server configuration.
//
// Configuration is layered: built-in defaults, then an optional JSON or YAML
// file, then SCRAPBOOK_* environment variables. The plugin registry (event
// type -> ordered plugin commands) lives here and is static for the process
// lifetime.
package config
