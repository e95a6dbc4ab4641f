// Package fileguard ties an open file to a scope and guarantees it is closed
// exactly once when the scope ends, however it ends.
package fileguard

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Mode selects how a file is opened.
type Mode int

const (
	// Read opens an existing file read-only.
	Read Mode = iota
	// Write creates or truncates the file for writing.
	Write
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "r"
	case Write:
		return "w"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Handle is an open file plus the bookkeeping needed to release it once.
type Handle struct {
	f      *os.File
	path   string
	mode   Mode
	log    zerolog.Logger
	closed bool
}

// Open acquires path in the given mode. A failure is logged and returned
// unchanged.
func Open(log zerolog.Logger, path string, mode Mode) (*Handle, error) {
	log.Info().Str("path", path).Stringer("mode", mode).Msg("Opening file")

	var (
		f   *os.File
		err error
	)
	switch mode {
	case Read:
		f, err = os.Open(path)
	case Write:
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	default:
		err = fmt.Errorf("unsupported file mode %v", mode)
	}
	if err != nil {
		log.Error().Err(err).Str("path", path).Stringer("mode", mode).Msg("Failed to open file")
		return nil, err
	}

	return &Handle{f: f, path: path, mode: mode, log: log}, nil
}

// File returns the underlying file.
func (h *Handle) File() *os.File {
	return h.f
}

// Path returns the path the handle was opened with.
func (h *Handle) Path() string {
	return h.path
}

// Close releases the file. Only the first call does any work.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	if err := h.f.Close(); err != nil {
		h.log.Error().Err(err).Str("path", h.path).Msg("Failed to close file")
		return err
	}
	h.log.Info().Str("path", h.path).Msg("File closed")
	return nil
}

// Fail records an error raised while the file was in use and returns it.
func (h *Handle) Fail(err error) error {
	if err != nil {
		h.log.Error().Err(err).Str("path", h.path).Msg("Error during file operation")
	}
	return err
}

// Do opens path, runs fn with the open file and closes it on every exit path,
// including a panic in fn. An error from fn is logged and returned as is; a
// close error is only returned when fn succeeded.
func Do(log zerolog.Logger, path string, mode Mode, fn func(f *os.File) error) (err error) {
	h, err := Open(log, path, mode)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("path", path).Msg("Error during file operation")
			_ = h.Close()
			panic(r)
		}
		closeErr := h.Close()
		if err == nil {
			err = closeErr
		}
	}()

	return h.Fail(fn(h.f))
}
