package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txnledger/internal/fileguard"
	"github.com/cleared-dev/txnledger/internal/id"
	"github.com/cleared-dev/txnledger/internal/model"
)

// ErrNegativeCount is returned when asked to generate fewer than zero records.
var ErrNegativeCount = errors.New("record count must not be negative")

// Amount bounds, in cents.
const (
	creditMinCents = 1000
	creditMaxCents = 50000
	debitMinCents  = 100
)

var debitFloor = decimal.NewFromInt(1)

// Writer synthesizes transactions against a running balance and stores them.
type Writer struct {
	log zerolog.Logger
	rng *rand.Rand
}

// Option configures a Writer.
type Option func(*Writer)

// WithSeed makes generation reproducible.
func WithSeed(seed uint64) Option {
	return func(w *Writer) {
		w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand sets the random source directly.
func WithRand(r *rand.Rand) Option {
	return func(w *Writer) {
		w.rng = r
	}
}

// NewWriter creates a Writer. Without options it draws from a randomly seeded source.
func NewWriter(log zerolog.Logger, opts ...Option) *Writer {
	w := &Writer{log: log}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return w
}

// Generate overwrites path with count records, starting from startingBalance.
// The balance is carried in cents, so startingBalance is rounded to two places.
func (w *Writer) Generate(path string, count int, startingBalance decimal.Decimal) error {
	if count < 0 {
		return fmt.Errorf("generating %d records: %w", count, ErrNegativeCount)
	}

	start := startingBalance.Round(2)
	balance := start
	err := fileguard.Do(w.log, path, fileguard.Write, func(f *os.File) error {
		cw := csv.NewWriter(f)
		for seq := 1; seq <= count; seq++ {
			var rec model.Record
			rec, balance = w.next(seq, balance)
			if err := cw.Write(MarshalRecord(rec)); err != nil {
				return fmt.Errorf("writing record %d: %w", seq, err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("flushing records: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.log.Info().
		Str("path", path).
		Int("count", count).
		Str("starting_balance", start.StringFixed(2)).
		Str("final_balance", balance.StringFixed(2)).
		Msg("Generated transactions")
	return nil
}

// next draws one transaction and returns it with the balance after it.
func (w *Writer) next(seq int, balance decimal.Decimal) (model.Record, decimal.Decimal) {
	rec := model.Record{ID: id.FormatTxnID(seq)}

	if w.rng.IntN(2) == 0 {
		rec.Kind = model.KindCredit
		rec.Amount = w.cents(creditMinCents, creditMaxCents)
	} else {
		rec.Kind = model.KindDebit
		rec.Amount = w.debitAmount(balance)
	}

	balance = balance.Add(rec.Signed())
	rec.Balance = balance
	return rec, balance
}

// debitAmount draws from [1.00, balance]. At or below 1.00 nothing can be
// debited and the amount is zero.
func (w *Writer) debitAmount(balance decimal.Decimal) decimal.Decimal {
	if !balance.GreaterThan(debitFloor) {
		return decimal.Zero
	}
	maxCents := balance.Shift(2).Floor().IntPart()
	return w.cents(debitMinCents, maxCents)
}

// cents draws a uniform amount in [lo, hi] cents.
func (w *Writer) cents(lo, hi int64) decimal.Decimal {
	return decimal.New(lo+w.rng.Int64N(hi-lo+1), -2)
}
