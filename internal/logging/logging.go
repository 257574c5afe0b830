// Package logging sets up the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variables honored by Setup.
const (
	// EnvDiscard silences all log output when set, whatever its value.
	EnvDiscard = "V39_DISCARD_LOG"
	// EnvLevel selects the minimum level: debug, info, warn or error.
	EnvLevel = "V39_LOG"
)

// defaultLevel is used when V39_LOG is unset or invalid.
var defaultLevel = slog.LevelInfo

// New returns a text logger writing to w, configured from the environment
// as given by lookup.
func New(w io.Writer, lookup func(string) (string, bool)) *slog.Logger {
	if _, ok := lookup(EnvDiscard); ok {
		w = io.Discard
	}
	level := defaultLevel
	if v, ok := lookup(EnvLevel); ok {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			level = defaultLevel
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup installs a logger on stderr as the slog default and returns it.
func Setup() *slog.Logger {
	log := New(os.Stderr, os.LookupEnv)
	slog.SetDefault(log)
	return log
}
