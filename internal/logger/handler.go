package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// consoleHandler renders records as single human-readable lines:
//
//	2006-01-02 15:04:05.000 INFO  [prefix] [file.go:42] message key=value
type consoleHandler struct {
	mu       *sync.Mutex
	out      io.Writer
	level    slog.Level
	colorize bool
	attrs    []slog.Attr
}

func newConsoleHandler(out io.Writer, level slog.Level, colorize bool) *consoleHandler {
	return &consoleHandler{
		mu:       &sync.Mutex{},
		out:      out,
		level:    level,
		colorize: colorize,
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &consoleHandler{
		mu:       h.mu,
		out:      h.out,
		level:    h.level,
		colorize: h.colorize,
		attrs:    merged,
	}
}

// WithGroup is a no-op: groups are flattened.
func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var prefix string
	fields := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	fields = append(fields, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == prefixKey {
			prefix = a.Value.String()
			return true
		}
		fields = append(fields, a)
		return true
	})

	var sb strings.Builder
	sb.WriteString(r.Time.Format("2006-01-02 15:04:05.000"))
	sb.WriteString(" ")
	sb.WriteString(h.levelString(r.Level))
	sb.WriteString(" ")

	if prefix != "" {
		sb.WriteString("[")
		sb.WriteString(prefix)
		sb.WriteString("] ")
	}

	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		file := frame.File
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		if file != "" {
			fmt.Fprintf(&sb, "[%s:%d] ", file, frame.Line)
		}
	}

	sb.WriteString(r.Message)

	for _, a := range fields {
		sb.WriteString(" ")
		if h.colorize {
			sb.WriteString(color.GreenString("%s", a.Key))
		} else {
			sb.WriteString(a.Key)
		}
		sb.WriteString("=")
		sb.WriteString(a.Value.String())
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *consoleHandler) levelString(level slog.Level) string {
	name := fmt.Sprintf("%-5s", level.String())
	if !h.colorize {
		return name
	}
	switch {
	case level >= ERROR:
		return color.RedString("%s", name)
	case level >= WARN:
		return color.YellowString("%s", name)
	case level >= INFO:
		return color.GreenString("%s", name)
	default:
		return color.CyanString("%s", name)
	}
}
