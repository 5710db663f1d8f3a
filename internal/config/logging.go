package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// ParseLogLevel maps a level name to a slog level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger returns a text logger on stderr. A non-empty logFile adds a
// JSON copy of every record; the returned func closes it.
func SetupLogger(logFile string, level slog.Level) (*slog.Logger, func() error) {
	if logFile == "" {
		return newLogger(os.Stderr, nil, level), func() error { return nil }
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := newLogger(os.Stderr, nil, level)
		logger.Error("log file unavailable, logging to stderr only", "file", logFile, "error", err)
		return logger, func() error { return nil }
	}
	return newLogger(os.Stderr, file, level), file.Close
}

func newLogger(console, jsonOut io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	text := slog.NewTextHandler(console, opts)
	if jsonOut == nil {
		return slog.New(text)
	}
	return slog.New(slogmulti.Fanout(text, slog.NewJSONHandler(jsonOut, opts)))
}
