package models

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// DateFormat is the canonical calendar-date representation used everywhere a
// date crosses a boundary (JSON, query params, fingerprints).
const DateFormat = "2006-01-02"

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// CanonicalTransaction is the single normalized representation every export
// layout is converted into. It is constructed once at parse time via
// NewCanonicalTransaction, which normalizes, validates and fingerprints it;
// after that it is treated as immutable and persisted exactly once.
type CanonicalTransaction struct {
	Source      string    `json:"source"`
	Subtype     Subtype   `json:"subtype"`
	TradeDate   time.Time `json:"trade_date"`
	SettleDate  time.Time `json:"settle_date,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
	Name        string    `json:"name"`
	Market      string    `json:"market,omitempty"`
	AccountType string    `json:"account_type,omitempty"`
	TradeType   TradeType `json:"trade_type"`

	Quantity     float64 `json:"quantity"`
	QuantityUnit string  `json:"quantity_unit"`

	Price         float64 `json:"price,omitempty"`          // per unit, original currency; 0 = unknown
	PriceCurrency string  `json:"price_currency,omitempty"`
	GrossAmount   float64 `json:"gross_amount,omitempty"`
	GrossCurrency string  `json:"gross_currency,omitempty"`

	Fee        float64 `json:"fee"`
	Tax        float64 `json:"tax"`
	OtherCosts float64 `json:"other_costs"`

	Currency string  `json:"currency"` // settlement/display currency
	FxRate   float64 `json:"fx_rate,omitempty"` // 0 = unknown

	SettledAmount   float64 `json:"settled_amount"` // signed: inflow >= 0, outflow <= 0
	SettledCurrency string  `json:"settled_currency"`

	Fingerprint string `json:"fingerprint"`
}

// ValidationError reports every violated invariant of a candidate
// transaction, not just the first one found.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid canonical transaction: %s", strings.Join(e.Violations, "; "))
}

// NewCanonicalTransaction normalizes the candidate, validates it and computes
// its fingerprint. Returns a *ValidationError when any invariant is violated;
// the returned transaction must not be used in that case.
func NewCanonicalTransaction(tx CanonicalTransaction) (CanonicalTransaction, error) {
	tx.normalize()
	if err := tx.validate(); err != nil {
		return CanonicalTransaction{}, err
	}
	tx.Fingerprint = ComputeFingerprint(tx)
	return tx, nil
}

func (tx *CanonicalTransaction) normalize() {
	tx.Source = strings.TrimSpace(tx.Source)
	tx.Name = strings.TrimSpace(tx.Name)
	tx.Symbol = strings.TrimSpace(tx.Symbol)
	tx.Market = strings.TrimSpace(tx.Market)
	tx.AccountType = strings.TrimSpace(tx.AccountType)
	tx.QuantityUnit = strings.TrimSpace(tx.QuantityUnit)

	tx.Currency = normalizeCode(tx.Currency)
	tx.SettledCurrency = normalizeCode(tx.SettledCurrency)
	tx.PriceCurrency = normalizeCode(tx.PriceCurrency)
	tx.GrossCurrency = normalizeCode(tx.GrossCurrency)

	tx.TradeDate = truncateToDay(tx.TradeDate)
	tx.SettleDate = truncateToDay(tx.SettleDate)

	// Cost-like fields are magnitudes.
	tx.Fee = math.Abs(tx.Fee)
	tx.Tax = math.Abs(tx.Tax)
	tx.OtherCosts = math.Abs(tx.OtherCosts)
}

func (tx *CanonicalTransaction) validate() error {
	var v []string
	if tx.Source == "" {
		v = append(v, "source is empty")
	}
	switch tx.Subtype {
	case SubtypeDomesticEquity, SubtypeForeignEquity, SubtypeFundUnit:
	default:
		v = append(v, fmt.Sprintf("unknown subtype %q", tx.Subtype))
	}
	if tx.TradeDate.IsZero() {
		v = append(v, "trade date is empty")
	}
	if tx.Name == "" {
		v = append(v, "name is empty")
	}
	if tx.TradeType == "" {
		v = append(v, "trade type is empty")
	}
	if !(tx.Quantity > 0) {
		v = append(v, fmt.Sprintf("quantity must be strictly positive, got %v", tx.Quantity))
	}
	if tx.QuantityUnit == "" {
		v = append(v, "quantity unit is empty")
	}
	if !currencyCodeRe.MatchString(tx.Currency) {
		v = append(v, fmt.Sprintf("currency %q is not a 3-letter code", tx.Currency))
	}
	if !currencyCodeRe.MatchString(tx.SettledCurrency) {
		v = append(v, fmt.Sprintf("settled currency %q is not a 3-letter code", tx.SettledCurrency))
	}
	if math.IsNaN(tx.SettledAmount) || math.IsInf(tx.SettledAmount, 0) {
		v = append(v, "settled amount is not numeric")
	}
	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
