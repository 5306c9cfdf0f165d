// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlog(level zerolog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := NewSlogHandler(NewTestLogger(&buf).Level(level))
	return slog.New(h), &buf
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.New(nil).Level(zerolog.WarnLevel))
	ctx := context.Background()

	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}
	for _, tt := range tests {
		if got := h.Enabled(ctx, tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		log       func(l *slog.Logger)
		wantLevel string
		wantMsg   string
	}{
		{"info", func(l *slog.Logger) { l.Info("service started") }, `"level":"info"`, "service started"},
		{"warn", func(l *slog.Logger) { l.Warn("service restarting") }, `"level":"warn"`, "service restarting"},
		{"error", func(l *slog.Logger) { l.Error("service failed") }, `"level":"error"`, "service failed"},
		{"debug", func(l *slog.Logger) { l.Debug("tick") }, `"level":"debug"`, "tick"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, buf := newBufferedSlog(zerolog.DebugLevel)
			tt.log(l)
			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) || !strings.Contains(out, tt.wantMsg) {
				t.Errorf("output = %s, want %s and %q", out, tt.wantLevel, tt.wantMsg)
			}
		})
	}
}

func TestSlogHandler_AttributeTypes(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedSlog(zerolog.DebugLevel)
	l.Info("attrs",
		slog.String("service", "training"),
		slog.Int("restarts", 2),
		slog.Uint64("uint", 7),
		slog.Float64("ratio", 0.5),
		slog.Bool("ok", true),
		slog.Duration("backoff", 1500*time.Millisecond),
		slog.Any("err", errors.New("boom")),
		slog.Any("tags", []string{"a"}),
	)

	out := buf.String()
	for _, want := range []string{
		`"service":"training"`, `"restarts":2`, `"uint":7`, `"ratio":0.5`, `"ok":true`,
		`"backoff":`, `"err":"boom"`, `"tags":["a"]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedSlog(zerolog.DebugLevel)
	l.With("supervisor", "root").
		WithGroup("event").
		WithGroup("service").
		Info("restart", slog.String("name", "api"), slog.Group("backoff", slog.Int("n", 1)))

	out := buf.String()
	for _, want := range []string{
		`"event.service.supervisor":"root"`,
		`"event.service.name":"api"`,
		`"event.service.backoff.n":1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogHandler_WithGroupEmpty(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(zerolog.Nop())
	if got := h.WithGroup(""); got != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestSlogHandler_WithAttrsDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := NewSlogHandler(zerolog.Nop()).WithAttrs([]slog.Attr{slog.String("a", "1")}).(*SlogHandler)
	h1 := base.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*SlogHandler)
	h2 := base.WithAttrs([]slog.Attr{slog.String("c", "3")}).(*SlogHandler)

	if h1.attrs[1].Key != "b" || h2.attrs[1].Key != "c" {
		t.Errorf("attrs aliased: h1=%v h2=%v", h1.attrs, h2.attrs)
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	t.Parallel()

	if NewSlogLogger("supervisor") == nil {
		t.Fatal("NewSlogLogger returned nil")
	}
}
