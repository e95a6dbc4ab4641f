package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates a structured logger writing JSON lines to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewConsole creates a human-readable logger on stderr.
func NewConsole(level zerolog.Level) zerolog.Logger {
	return New(consoleWriter(os.Stderr), level)
}

// Open creates <dir>/<file> in append mode and returns a logger writing to it,
// teed to stderr when console is set. The returned closer releases the file.
func Open(dir, file string, level zerolog.Level, console bool) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, file)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	var w io.Writer = f
	if console {
		w = zerolog.MultiLevelWriter(f, consoleWriter(os.Stderr))
	}
	return New(w, level), f, nil
}

// ParseLevel maps a config level name to a zerolog level. Empty or unknown
// names fall back to info.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
}
