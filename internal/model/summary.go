package model

import "github.com/shopspring/decimal"

// Summary aggregates a stream of records.
type Summary struct {
	TotalCount   int
	TotalCredit  decimal.Decimal
	TotalDebit   decimal.Decimal
	FinalBalance decimal.Decimal // balance of the last record, zero if none
	Skipped      int             // malformed rows dropped by the reader
}

// Add folds one record into the summary.
func (s *Summary) Add(r Record) {
	s.TotalCount++
	if r.Kind.IsCredit() {
		s.TotalCredit = s.TotalCredit.Add(r.Amount)
	} else {
		s.TotalDebit = s.TotalDebit.Add(r.Amount)
	}
	s.FinalBalance = r.Balance
}

// Consistent reports whether initial + credits - debits equals the final balance.
func (s Summary) Consistent(initial decimal.Decimal) bool {
	return initial.Add(s.TotalCredit).Sub(s.TotalDebit).Equal(s.FinalBalance)
}
