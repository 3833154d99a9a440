// Package logger implements the agent's logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Handler is a custom slog.Handler emitting single-line "key=value" records,
// one per log call, suited to journald capture: this agent runs as a
// systemd service, not an interactive terminal, so there is no color layer.
type Handler struct {
	out   io.Writer
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewHandler creates a new Handler writing to w (os.Stderr if nil).
func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &Handler{out: w, level: levelVar}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the log record as "time=... level=... msg=... key=value ...".
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString("time=")
	b.WriteString(r.Time.Format(time.RFC3339))
	b.WriteString(" level=")
	b.WriteString(r.Level.String())
	b.WriteString(" msg=")
	b.WriteString(quoteIfNeeded(r.Message))

	for _, attr := range h.attrs {
		writeAttr(&b, attr, "")
	}

	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, attr, h.group)
		return true
	})

	b.WriteByte('\n')
	_, err := h.out.Write([]byte(b.String()))
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	for i, attr := range attrs {
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		newAttrs[len(h.attrs)+i] = slog.Attr{Key: key, Value: attr.Value}
	}

	return &Handler{out: h.out, level: h.level, attrs: newAttrs, group: h.group}
}

// WithGroup returns a new Handler with the given group name appended.
// Per slog.Handler contract, WithGroup("") returns the receiver unchanged.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroup := name
	if h.group != "" {
		newGroup = h.group + "." + name
	}
	return &Handler{out: h.out, level: h.level, attrs: h.attrs, group: newGroup}
}

func writeAttr(b *strings.Builder, attr slog.Attr, group string) {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(quoteIfNeeded(attr.Value.String()))
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t\"=") {
		return strconv.Quote(s)
	}
	return s
}
