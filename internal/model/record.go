package model

import "github.com/shopspring/decimal"

// Kind is the direction of a transaction against the running balance.
type Kind string

const (
	KindCredit Kind = "CREDIT"
	KindDebit  Kind = "DEBIT"
)

// IsCredit reports whether k is exactly CREDIT. Every other value, including
// unknown kinds read back from disk, counts as a debit.
func (k Kind) IsCredit() bool {
	return k == KindCredit
}

// Record is one row of the transaction file.
type Record struct {
	ID      string          // "TXN-00001"
	Kind    Kind            // not validated on read
	Amount  decimal.Decimal // always >= 0 when generated
	Balance decimal.Decimal // running balance after this record
}

// Signed returns the amount with the sign it applies to the balance.
func (r Record) Signed() decimal.Decimal {
	if r.Kind.IsCredit() {
		return r.Amount
	}
	return r.Amount.Neg()
}
