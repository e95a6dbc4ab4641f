package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txnledger/internal/model"
)

// ErrMalformedRecord wraps every row decode failure.
var ErrMalformedRecord = errors.New("malformed record")

const (
	numFields  = 4
	colID      = 0
	colKind    = 1
	colAmount  = 2
	colBalance = 3
)

// SplitRow splits one physical line into fields. Fields never contain commas,
// so quotes carry no meaning and are kept as written.
func SplitRow(line string) []string {
	return strings.Split(line, ",")
}

// MarshalRecord converts a Record to a CSV row. Money is rendered with two
// fractional digits.
func MarshalRecord(r model.Record) []string {
	row := make([]string, numFields)
	row[colID] = r.ID
	row[colKind] = string(r.Kind)
	row[colAmount] = r.Amount.StringFixed(2)
	row[colBalance] = r.Balance.StringFixed(2)
	return row
}

// UnmarshalRecord converts a CSV row to a Record. Fields past the fourth are
// ignored; the kind is taken as is.
func UnmarshalRecord(record []string) (model.Record, error) {
	if len(record) < numFields {
		return model.Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, numFields, len(record))
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[colAmount]))
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: parsing amount %q: %w", ErrMalformedRecord, record[colAmount], err)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(record[colBalance]))
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: parsing balance %q: %w", ErrMalformedRecord, record[colBalance], err)
	}

	return model.Record{
		ID:      record[colID],
		Kind:    model.Kind(record[colKind]),
		Amount:  amount,
		Balance: balance,
	}, nil
}
