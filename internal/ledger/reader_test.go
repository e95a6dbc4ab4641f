package ledger

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/txnledger/internal/fileguard"
)

const mixedFile = "TXN-1,CREDIT,100.0,1100.0\n" +
	"TXN-2,INVALID,NONE,ERROR\n" +
	"TXN-3,DEBIT,50.0,1050.0\n"

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestStream_SkipsMalformedRows(t *testing.T) {
	var buf bytes.Buffer
	path := writeFile(t, mixedFile)

	s, err := NewReader(zerolog.New(&buf)).Stream(path)
	require.NoError(t, err)

	var ids []string
	for s.Next() {
		ids = append(ids, s.Record().ID)
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []string{"TXN-1", "TXN-3"}, ids)
	assert.Equal(t, 1, s.Skipped())

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "Skipping malformed record"))
	assert.Contains(t, out, `"row":"TXN-2,INVALID,NONE,ERROR"`)
	assert.Contains(t, out, `"line":2`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Equal(t, 1, strings.Count(out, "File closed"))
}

func TestStream_ShortAndNonNumericRows(t *testing.T) {
	path := writeFile(t, "TXN-1,CREDIT\n"+
		"TXN-2,CREDIT,10.00,abc\n"+
		"TXN-3,CREDIT,10.00,110.00,extra\n"+
		"lonely\n"+
		"TXN-4,DEBIT,5.00,105.00\n")

	s, err := NewReader(zerolog.Nop()).Stream(path)
	require.NoError(t, err)

	var ids []string
	for s.Next() {
		ids = append(ids, s.Record().ID)
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []string{"TXN-3", "TXN-4"}, ids)
	assert.Equal(t, 3, s.Skipped())
}

func TestStream_StrayQuoteIsOrdinaryText(t *testing.T) {
	path := writeFile(t, "TXN-1,CRE\"DIT,10.00,110.00\n"+
		"TXN-2,DEBIT,5.00,105.00\n")

	s, err := NewReader(zerolog.Nop()).Stream(path)
	require.NoError(t, err)

	var kinds []string
	for rec := range s.All() {
		kinds = append(kinds, string(rec.Kind))
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []string{"CRE\"DIT", "DEBIT"}, kinds)
	assert.Zero(t, s.Skipped())
}

func TestStream_UnterminatedQuoteStaysOnItsLine(t *testing.T) {
	var buf bytes.Buffer
	path := writeFile(t, "TXN-1,CREDIT,10.00,110.00\n"+
		"TXN-2,\"DEBIT,5.00,105.00\n"+
		"TXN-3,DEBIT,5.00,100.00\n"+
		"TXN-4,DEBIT,5.00,95.00\n")

	sum, err := NewAggregator(zerolog.New(&buf)).Summarize(path)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.TotalCount)
	assert.Zero(t, sum.Skipped)
	assert.True(t, sum.FinalBalance.Equal(dec("95.00")), "final %s", sum.FinalBalance)
}

func TestStream_QuotedNumberIsMalformed(t *testing.T) {
	var buf bytes.Buffer
	path := writeFile(t, "TXN-1,CREDIT,10.00,110.00\n"+
		"TXN-2,DEBIT,\"5.00,105.00\n"+
		"TXN-3,DEBIT,5.00,105.00\n")

	s, err := NewReader(zerolog.New(&buf)).Stream(path)
	require.NoError(t, err)

	var ids []string
	for rec := range s.All() {
		ids = append(ids, rec.ID)
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []string{"TXN-1", "TXN-3"}, ids)
	assert.Equal(t, 1, s.Skipped())
	assert.Contains(t, buf.String(), `"line":2`)
}

func TestStream_BlankLineIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	path := writeFile(t, "TXN-1,CREDIT,10.00,110.00\n\nTXN-2,DEBIT,5.00,105.00\r\n")

	s, err := NewReader(zerolog.New(&buf)).Stream(path)
	require.NoError(t, err)

	var ids []string
	for rec := range s.All() {
		ids = append(ids, rec.ID)
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []string{"TXN-1", "TXN-2"}, ids)
	assert.Equal(t, 1, s.Skipped())
	assert.Contains(t, buf.String(), `"line":2`)
}

func TestStream_ReadErrorSurfacesAndCloses(t *testing.T) {
	var buf bytes.Buffer

	// A directory opens fine but fails on the first read.
	s, err := NewReader(zerolog.New(&buf)).Stream(t.TempDir())
	require.NoError(t, err)

	assert.False(t, s.Next())
	require.Error(t, s.Err())
	assert.False(t, s.Next())
	require.NoError(t, s.Close())

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "Error during file operation"))
	assert.Equal(t, 1, strings.Count(out, "File closed"))
	assert.NotContains(t, out, "Skipping malformed record")
}

func TestStream_PreservesFileOrder(t *testing.T) {
	path := writeFile(t, "TXN-3,CREDIT,1.00,3.00\nTXN-1,CREDIT,1.00,1.00\nTXN-2,CREDIT,1.00,2.00\n")

	s, err := NewReader(zerolog.Nop()).Stream(path)
	require.NoError(t, err)

	var ids []string
	for rec := range s.All() {
		ids = append(ids, rec.ID)
	}
	require.NoError(t, s.Err())
	assert.Equal(t, []string{"TXN-3", "TXN-1", "TXN-2"}, ids)
}

func TestStream_EmptyFile(t *testing.T) {
	var buf bytes.Buffer
	path := writeFile(t, "")

	s, err := NewReader(zerolog.New(&buf)).Stream(path)
	require.NoError(t, err)
	assert.False(t, s.Next())
	assert.False(t, s.Next())
	require.NoError(t, s.Err())
	assert.Equal(t, 1, strings.Count(buf.String(), "File closed"))
}

func TestStream_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewReader(zerolog.New(&buf)).Stream(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, buf.String(), "Failed to open file")
}

func TestStream_AbandonAfterFirstRecord(t *testing.T) {
	var buf bytes.Buffer
	path := generate(t, 100, "5000.00", 1)

	s, err := NewReader(zerolog.New(&buf)).Stream(path)
	require.NoError(t, err)
	require.True(t, s.Next())
	assert.Equal(t, "TXN-00001", s.Record().ID)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.False(t, s.Next(), "closed stream yields nothing")
	assert.Equal(t, 1, strings.Count(buf.String(), "File closed"))

	// The path can be reopened for writing once the stream is released.
	err = fileguard.Do(zerolog.Nop(), path, fileguard.Write, func(f *os.File) error { return nil })
	require.NoError(t, err)
}

func TestStream_BreakOutOfRangeCloses(t *testing.T) {
	var buf bytes.Buffer
	path := generate(t, 10, "5000.00", 1)

	s, err := NewReader(zerolog.New(&buf)).Stream(path)
	require.NoError(t, err)

	n := 0
	for range s.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
	assert.False(t, s.Next())
	assert.Equal(t, 1, strings.Count(buf.String(), "File closed"))
}

func TestStream_Lazy(t *testing.T) {
	path := generate(t, 5, "5000.00", 1)

	s, err := NewReader(zerolog.Nop()).Stream(path)
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.Next())
	first := s.Record()
	require.True(t, s.Next())
	second := s.Record()
	assert.Equal(t, "TXN-00001", first.ID)
	assert.Equal(t, "TXN-00002", second.ID)
}
