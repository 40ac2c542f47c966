package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is one captured log line with its attributes flattened.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that keeps every record in memory and echoes
// it to t.Log. Handlers made by WithAttrs append to the same capture.
type LogCapture struct {
	t      *testing.T
	bound  []slog.Attr
	shared *struct {
		sync.Mutex
		records []LogRecord
	}
}

// NewTestLogger returns a logger writing into a fresh LogCapture.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	c := &LogCapture{t: t, shared: &struct {
		sync.Mutex
		records []LogRecord
	}{}}
	return slog.New(c), c
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	rec := LogRecord{Level: r.Level, Message: r.Message, Attrs: map[string]any{}}
	for _, a := range c.bound {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()
		return true
	})

	c.shared.Lock()
	c.shared.records = append(c.shared.records, rec)
	c.shared.Unlock()

	if c.t != nil {
		c.t.Logf("%s %s %v", r.Level, r.Message, rec.Attrs)
	}
	return nil
}

func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *c
	next.bound = append(append([]slog.Attr(nil), c.bound...), attrs...)
	return &next
}

// WithGroup ignores the group; keys stay flat.
func (c *LogCapture) WithGroup(string) slog.Handler { return c }

// Records returns the captured records at or above min.
func (c *LogCapture) Records(min slog.Level) []LogRecord {
	c.shared.Lock()
	defer c.shared.Unlock()
	var out []LogRecord
	for _, r := range c.shared.records {
		if r.Level >= min {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the first record whose message contains substr.
func (c *LogCapture) Find(substr string) (LogRecord, bool) {
	for _, r := range c.Records(slog.LevelDebug) {
		if strings.Contains(r.Message, substr) {
			return r, true
		}
	}
	return LogRecord{}, false
}

// AssertNoErrors fails t for every error-level record captured.
func AssertNoErrors(t *testing.T, c *LogCapture) {
	t.Helper()
	for _, r := range c.Records(slog.LevelError) {
		t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
	}
}
