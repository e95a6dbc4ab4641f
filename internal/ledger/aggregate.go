package ledger

import (
	"github.com/rs/zerolog"

	"github.com/cleared-dev/txnledger/internal/model"
)

// Aggregator folds a transaction file into a Summary.
type Aggregator struct {
	log    zerolog.Logger
	reader *Reader
}

// NewAggregator creates an Aggregator reading through its own Reader.
func NewAggregator(log zerolog.Logger) *Aggregator {
	return &Aggregator{log: log, reader: NewReader(log)}
}

// Summarize streams path once and returns its Summary.
func (a *Aggregator) Summarize(path string) (model.Summary, error) {
	s, err := a.reader.Stream(path)
	if err != nil {
		return model.Summary{}, err
	}

	sum, err := Fold(s)
	sum.Skipped = s.Skipped()
	if err != nil {
		return model.Summary{}, err
	}

	a.log.Info().
		Str("path", path).
		Int("total_count", sum.TotalCount).
		Int("skipped", sum.Skipped).
		Str("final_balance", sum.FinalBalance.StringFixed(2)).
		Msg("Summarized transactions")
	return sum, nil
}

// Fold drains src in a single pass and closes it.
func Fold(src RecordSource) (model.Summary, error) {
	defer src.Close()

	var sum model.Summary
	for src.Next() {
		sum.Add(src.Record())
	}
	return sum, src.Err()
}
