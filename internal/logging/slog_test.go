package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/partab/types"
)

func newBufferLogger(level slog.Level) (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})

	return NewSlog(slog.New(handler)), buf
}

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	t.Helper()
	var _ types.Logger = (*SlogLogger)(nil)
}

func TestNewSlog_NilFallsBackToDefault(t *testing.T) {
	logger := NewSlog(nil)

	require.NotNil(t, logger)
	require.Same(t, slog.Default(), logger.logger)
	require.NotNil(t, NewSlogDefault().logger)
}

func TestSlogLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *SlogLogger)
		level string
		field string
	}{
		{"debug", func(l *SlogLogger) { l.Debug("debug message", "gid", 3) }, "level=DEBUG", "gid=3"},
		{"info", func(l *SlogLogger) { l.Info("info message", "table", "rows") }, "level=INFO", "table=rows"},
		{"warn", func(l *SlogLogger) { l.Warn("warn message", "empty", 2) }, "level=WARN", "empty=2"},
		{"error", func(l *SlogLogger) { l.Error("error message", "eid", 7) }, "level=ERROR", "eid=7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(slog.LevelDebug)
			tt.log(logger)

			output := buf.String()
			assert.Contains(t, output, tt.name+" message")
			assert.Contains(t, output, tt.level)
			assert.Contains(t, output, tt.field)
		})
	}
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(slog.LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	require.Empty(t, buf.String())

	logger.Warn("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	var _ types.Logger = logger

	require.NotPanics(t, func() {
		logger.Debug("test message", "key", "value")
		logger.Info("", nil)
		logger.Warn("message", "single")
		logger.Error("message", "k1", "v1", "k2", "v2")
	})
}

func BenchmarkNopLogger(b *testing.B) {
	logger := NewNop()

	for b.Loop() {
		logger.Debug("benchmark message", "key1", "value1", "key2", 42)
	}
}
