package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogCapture(t *testing.T) {
	logger, logs := NewTestLogger(t)

	logger.With(slog.String("step", "load")).Warn("input file skipped", slog.String("file", "acidentes2019.csv"))
	logger.Info("dataset loaded", slog.Int("rows", 5))
	logger.Debug("column kinds resolved")

	assert.Len(t, logs.Records(slog.LevelDebug), 3)
	assert.Len(t, logs.Records(slog.LevelWarn), 1)

	rec, ok := logs.Find("skipped")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, rec.Level)
	assert.Equal(t, "load", rec.Attrs["step"])
	assert.Equal(t, "acidentes2019.csv", rec.Attrs["file"])

	loaded, ok := logs.Find("dataset loaded")
	assert.True(t, ok)
	assert.NotContains(t, loaded.Attrs, "step", "bound attrs stay on the derived logger")

	AssertNoErrors(t, logs)

	_, ok = logs.Find("missing")
	assert.False(t, ok)
}
