// Package log defines the logging interface shared by the popow core and
// its supporting infrastructure.
package log

import "go.uber.org/zap"

// Level names mirror the zap levels this interface is backed by.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
	FatalLevel = "fatal"
)

// Logger is the structured logging interface consumed by every component
// in this module. Components take it as an optional dependency: a nil
// Logger must never cause a panic, only silence.
type Logger interface {
	Debug(msg string)
	Debugf(format string, args ...interface{})
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(msg string)
	Errorf(format string, args ...interface{})
	Fatal(msg string)
	Fatalf(format string, args ...interface{})

	// With returns a logger carrying additional structured fields,
	// supplied as alternating key/value pairs.
	With(args ...interface{}) Logger

	// Sync flushes any buffered log entries.
	Sync() error

	// GetZapLogger exposes the underlying zap logger for callers that
	// need direct access (e.g. to pass into a third-party library that
	// takes a *zap.Logger).
	GetZapLogger() *zap.Logger
}
