// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, and carries loggers through contexts so a
// round id or migration id can be attached once and appear on every record.
package logger
