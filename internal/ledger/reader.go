package ledger

import (
	"bufio"
	"iter"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/txnledger/internal/fileguard"
	"github.com/cleared-dev/txnledger/internal/model"
)

// RecordSource yields records one at a time until Next returns false.
type RecordSource interface {
	Next() bool
	Record() model.Record
	Err() error
	Close() error
}

// Reader opens transaction files as lazy record streams.
type Reader struct {
	log zerolog.Logger
}

// NewReader creates a Reader.
func NewReader(log zerolog.Logger) *Reader {
	return &Reader{log: log}
}

// Stream opens path and returns a stream positioned before the first record.
// The file stays open until the stream is exhausted or closed.
func (r *Reader) Stream(path string) (*Stream, error) {
	h, err := fileguard.Open(r.log, path, fileguard.Read)
	if err != nil {
		return nil, err
	}

	return &Stream{h: h, sc: bufio.NewScanner(h.File()), log: r.log}, nil
}

// Stream decodes one physical line per call to Next. Lines that cannot be
// decoded are logged and skipped.
type Stream struct {
	h       *fileguard.Handle
	sc      *bufio.Scanner
	log     zerolog.Logger
	rec     model.Record
	err     error
	line    int
	skipped int
	done    bool
}

// Next advances to the next well-formed record. It returns false at end of
// file or on a read error; the file is closed either way.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}

	for s.sc.Scan() {
		s.line++
		raw := s.sc.Text()

		rec, err := UnmarshalRecord(SplitRow(raw))
		if err != nil {
			s.skip(raw, err)
			continue
		}

		s.rec = rec
		return true
	}

	s.finish(s.h.Fail(s.sc.Err()))
	return false
}

// Record returns the record Next advanced to.
func (s *Stream) Record() model.Record {
	return s.rec
}

// Err returns the first read or close error, if any. Skipped rows are not errors.
func (s *Stream) Err() error {
	return s.err
}

// Skipped returns how many malformed rows have been dropped so far.
func (s *Stream) Skipped() int {
	return s.skipped
}

// Close releases the file. It is safe to call after the stream is exhausted.
func (s *Stream) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.h.Close()
}

// All returns the remaining records as an iterator. Breaking out of the loop
// closes the stream; check Err once the loop ends.
func (s *Stream) All() iter.Seq[model.Record] {
	return func(yield func(model.Record) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.rec) {
				return
			}
		}
	}
}

func (s *Stream) skip(raw string, err error) {
	s.skipped++
	s.log.Warn().
		Err(err).
		Str("path", s.h.Path()).
		Int("line", s.line).
		Str("row", raw).
		Msg("Skipping malformed record")
}

func (s *Stream) finish(err error) {
	s.done = true
	closeErr := s.h.Close()
	if err == nil {
		err = closeErr
	}
	s.err = err
}
