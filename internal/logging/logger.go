// Package logging builds the structured loggers used across flightsim.
// Output goes to stderr so it never mixes with CSV or JSON written to
// stdout. The level is read from FLIGHTSIM_LOG_LEVEL (DEBUG, INFO, WARN,
// ERROR) and defaults to WARN.
package logging

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strings"
)

const EnvLevel = "FLIGHTSIM_LOG_LEVEL"

// New returns a text logger writing to stderr at the level from the
// environment.
func New() *slog.Logger {
	return NewWithWriter(os.Stderr, LevelFromEnv())
}

// NewJSON is like New but emits one JSON object per record.
func NewJSON() *slog.Logger {
	return NewJSONWithWriter(os.Stderr, LevelFromEnv())
}

func NewJSONWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// LevelFromEnv parses FLIGHTSIM_LOG_LEVEL, falling back to WARN.
func LevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(EnvLevel))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// NewRunID returns a short random identifier for tagging one run's records.
func NewRunID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "000000000000"
	}
	return hex.EncodeToString(b)
}

// WithRun tags every record from the returned logger with run_id.
func WithRun(l *slog.Logger, id string) *slog.Logger {
	return l.With("run_id", id)
}
