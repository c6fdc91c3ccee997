package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Stdout carries the stdio protocol stream, so every sink here writes to
// stderr or a file.
var stderr io.Writer = os.Stderr

// Init configures the global zerolog logger. When dir is set, entries are
// also appended to <dir>/<YYYY-MM-DD>.log. The returned func closes that file.
func Init(level, format, dir string) (func(), error) {
	lvl := parseLevel(level)

	var console io.Writer
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		console = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}
	case "json":
		console = stderr
	default:
		return func() {}, errors.New("unsupported log format")
	}

	out := console
	closeFn := func() {}
	if dir = strings.TrimSpace(dir); dir != "" {
		f, err := openDailyFile(dir, time.Now())
		if err != nil {
			return func() {}, err
		}
		out = zerolog.MultiLevelWriter(console, f)
		closeFn = func() { _ = f.Close() }
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(lvl)
	return closeFn, nil
}

func openDailyFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, now.Format("2006-01-02")+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func parseLevel(raw string) zerolog.Level {
	if raw == "" {
		return zerolog.InfoLevel
	}
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "warning":
		raw = "warn"
	case "critical":
		raw = "fatal"
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
