package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/DanielSidhion/nixless-agent/internal/adapters/logger"
	"github.com/stretchr/testify/assert"
)

func TestHandler_FormatsKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(logger.NewHandler(&buf, nil))

	l.Info("switch started", "version", 4, "package_id", "bbbb-sys")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "msg=\"switch started\"")
	assert.Contains(t, out, "version=4")
	assert.Contains(t, out, "package_id=bbbb-sys")
}

func TestHandler_RespectsLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(logger.NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	l.Info("should not appear")
	l.Warn("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewHandler(&buf, nil)
	l := slog.New(base).With("actor", "downloader").WithGroup("switch")

	l.Info("fetch complete", "id", "aaaa-sys")

	out := buf.String()
	assert.Contains(t, out, "actor=downloader")
	assert.Contains(t, out, "switch.id=aaaa-sys")
}
