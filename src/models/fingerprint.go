package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ComputeFingerprint derives the deduplication key for a transaction from its
// economically meaningful fields. Two transactions with the same fingerprint
// are treated as the same real-world event and must never both persist.
//
// The hash is xxhash64 over the pipe-joined key tuple, rendered as
// "tx-" + 16 hex digits. xxhash is stable across runs and platforms; the
// collision probability is low but non-zero, which the ledger accepts for a
// convenience dedup key.
func ComputeFingerprint(tx CanonicalTransaction) string {
	fields := []string{
		tx.Source,
		string(tx.Subtype),
		tx.TradeDate.Format(DateFormat),
		tx.Name,
		tx.Symbol,
		string(tx.TradeType),
		formatAmount(tx.Quantity),
		formatAmount(tx.Price),
		tx.Currency,
		formatAmount(tx.SettledAmount),
		tx.SettledCurrency,
	}
	sum := xxhash.Sum64String(strings.Join(fields, "|"))
	return fmt.Sprintf("tx-%016x", sum)
}

// formatAmount renders a float with the shortest exact representation so the
// fingerprint does not depend on formatting precision.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
