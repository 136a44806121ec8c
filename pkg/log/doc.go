// Package log builds the process-wide structured logger.
//
// The logger is a plain zerolog.Logger; this package only owns construction:
// level parsing, output format selection (text for humans, JSON for
// collectors), and the convention that every component receives a child
// logger tagged with a "component" field. Loggers are passed explicitly by
// dependency injection; there is no package-level default.
package log
