// Package testhelpers provides shared test doubles.
package testhelpers

import (
	"github.com/opendatamd/regcrawl/internal/logger"
)

// LogEntry is one recorded log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
}

// RecordingLogger captures log calls for assertions in tests.
type RecordingLogger struct {
	Entries []LogEntry
}

// NewRecordingLogger creates a RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) record(level, msg string, fields []any) {
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

// Debug records a debug message.
func (l *RecordingLogger) Debug(msg string, fields ...any) { l.record("debug", msg, fields) }

// Info records an info message.
func (l *RecordingLogger) Info(msg string, fields ...any) { l.record("info", msg, fields) }

// Warn records a warning message.
func (l *RecordingLogger) Warn(msg string, fields ...any) { l.record("warn", msg, fields) }

// Error records an error message.
func (l *RecordingLogger) Error(msg string, fields ...any) { l.record("error", msg, fields) }

// With returns the logger itself; field scoping is not recorded.
func (l *RecordingLogger) With(fields ...any) logger.Interface { return l }

// WithComponent returns the logger itself.
func (l *RecordingLogger) WithComponent(component string) logger.Interface { return l }

// WithError returns the logger itself.
func (l *RecordingLogger) WithError(err error) logger.Interface { return l }

// Sync is a no-op.
func (l *RecordingLogger) Sync() error { return nil }

// Messages returns all recorded messages at the given level.
func (l *RecordingLogger) Messages(level string) []string {
	var out []string
	for _, entry := range l.Entries {
		if entry.Level == level {
			out = append(out, entry.Message)
		}
	}
	return out
}
