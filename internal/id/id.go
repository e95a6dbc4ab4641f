package id

import "fmt"

// Prefix starts every transaction identifier.
const Prefix = "TXN-"

// FormatTxnID returns a transaction ID like "TXN-00001".
func FormatTxnID(seq int) string {
	return fmt.Sprintf("%s%05d", Prefix, seq)
}
