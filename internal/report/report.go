package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txnledger/internal/model"
)

const rule = "=============================="

// Write renders s as the console summary report.
func Write(w io.Writer, s model.Summary) error {
	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("TRANSACTION SUMMARY REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Processed Records: %d\n", s.TotalCount)
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped Records:   %d\n", s.Skipped)
	}
	fmt.Fprintf(&b, "Total Credited:    %s\n", Money(s.TotalCredit))
	fmt.Fprintf(&b, "Total Debited:     %s\n", Money(s.TotalDebit))
	fmt.Fprintf(&b, "Final Account Bal: %s\n", Money(s.FinalBalance))
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Money formats d as dollars with thousands separators: "$1,234.56".
// Negative amounts render as "$-1,234.56".
func Money(d decimal.Decimal) string {
	text := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(text, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return "$" + sign + grouped.String() + "." + frac
}
