// Package common provides the data structures and utilities shared across the
// storagefor packages. It defines the error model, the configuration structure
// and the logging setup used by the other packages.
//
// The package focuses on:
//   - A structured error type with return codes for configuration and entity errors
//   - The configuration structure for stores, codecs and logging
//   - Custom logging implementation integrated with Dragonboat's logger package
//
// Key Components:
//
//   - Error: Wraps a RetCode and a message. The sentinel values ErrConfiguration and
//     ErrInvalidEntity can be matched with errors.Is against any *Error carrying the
//     same code, so callers never need to compare messages.
//
//   - Config: Settings for the native stores (data directory, local and session
//     store paths), the value codec, the descriptor file and the log level.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's logger
//     factory. Every package creates its logger with logger.GetLogger(name) at
//     package level; InitLoggers installs the formatting and the levels.
package common
