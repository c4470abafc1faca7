// Package testutil provides shared helpers for package tests.
package testutil

import (
	"strings"
	"sync"

	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
)

// Entry is a single log call captured by RecordingLogger.
type Entry struct {
	Level   string
	Message string
	Fields  []logging.Field
}

// RecordingLogger implements logging.Logger and records every entry so tests
// can assert on what was logged.  Child loggers created via With and Named
// share the parent's entry list.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  []logging.Field
	name    string
}

// NewRecordingLogger constructs an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	entries := make([]Entry, 0, 16)
	return &RecordingLogger{mu: &sync.Mutex{}, entries: &entries}
}

func (l *RecordingLogger) record(level, msg string, fields []logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	all := make([]logging.Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	*l.entries = append(*l.entries, Entry{Level: level, Message: msg, Fields: all})
}

func (l *RecordingLogger) Debug(msg string, fields ...logging.Field) { l.record("debug", msg, fields) }
func (l *RecordingLogger) Info(msg string, fields ...logging.Field)  { l.record("info", msg, fields) }
func (l *RecordingLogger) Warn(msg string, fields ...logging.Field)  { l.record("warn", msg, fields) }
func (l *RecordingLogger) Error(msg string, fields ...logging.Field) { l.record("error", msg, fields) }

// Fatal records the entry but does not exit the process.
func (l *RecordingLogger) Fatal(msg string, fields ...logging.Field) { l.record("fatal", msg, fields) }

// With returns a child logger carrying extra fields; entries still land in
// the parent's list.
func (l *RecordingLogger) With(fields ...logging.Field) logging.Logger {
	child := *l
	child.fields = append(append([]logging.Field{}, l.fields...), fields...)
	return &child
}

// Named returns a child logger; the name is recorded only for interface
// compatibility.
func (l *RecordingLogger) Named(name string) logging.Logger {
	child := *l
	if child.name == "" {
		child.name = name
	} else {
		child.name = child.name + "." + name
	}
	return &child
}

// Entries returns a snapshot of everything logged so far.
func (l *RecordingLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(*l.entries))
	copy(out, *l.entries)
	return out
}

// Has reports whether an entry at the given level contains substr in its
// message.
func (l *RecordingLogger) Has(level, substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Field returns the value of the named field on the first entry matching the
// level and message substring, or nil.
func (l *RecordingLogger) Field(level, substr, key string) interface{} {
	for _, e := range l.Entries() {
		if e.Level != level || !strings.Contains(e.Message, substr) {
			continue
		}
		for _, f := range e.Fields {
			if f.Key == key {
				return f.Value
			}
		}
	}
	return nil
}
