// Package logging builds the diagnostic logger. Command output never goes
// through it.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/amonks/immaculater/internal/validation"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel converts debug, info, warn, or error, in any case, to a level.
func ParseLevel(s string) (slog.Level, error) {
	level, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, validation.OneOf(nil, "log level", s, []string{"debug", "info", "warn", "error"})
	}
	return level, nil
}

// New returns a logger writing to w. format is "text" or "json".
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, validation.OneOf(nil, "log format", format, []string{"text", "json"})
	}
}
