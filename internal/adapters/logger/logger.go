package logger

import (
	"log/slog"

	"github.com/DanielSidhion/nixless-agent/internal/core/ports"
)

var _ ports.Logger = (*SlogLogger)(nil)

// SlogLogger adapts a *slog.Logger to the ports.Logger interface the core
// components depend on.
type SlogLogger struct {
	l *slog.Logger
}

// New wraps an *slog.Logger, defaulting to one built on Handler/os.Stderr.
func New(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.New(NewHandler(nil, nil))
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Info(msg string, keyvals ...any) {
	s.l.Info(msg, keyvals...)
}

func (s *SlogLogger) Warn(msg string, keyvals ...any) {
	s.l.Warn(msg, keyvals...)
}

func (s *SlogLogger) Error(msg string, err error, keyvals ...any) {
	args := append([]any{"error", err}, keyvals...)
	s.l.Error(msg, args...)
}
