package models

// InstrumentKey identifies a holding. Symbol falls back to the instrument
// name for exports that carry no code (fund units).
type InstrumentKey struct {
	Instrument string `json:"instrument"` // symbol, or name when no symbol exists
	Market     string `json:"market"`
	Currency   string `json:"currency"`
}

// Position is the derived per-instrument holding state. It is recomputed on
// demand from the full transaction history and never persisted.
type Position struct {
	Key         InstrumentKey `json:"key"`
	QuantityNet float64       `json:"quantity_net"`
	TotalCost   float64       `json:"total_cost"` // cost basis in settlement currency
	AvgPrice    float64       `json:"avg_price"`  // TotalCost / QuantityNet when positive, else 0
}

// InstrumentKey returns the holding key for a canonical transaction, falling
// back to the name when the symbol is absent.
func (tx CanonicalTransaction) InstrumentKey() InstrumentKey {
	instrument := tx.Symbol
	if instrument == "" {
		instrument = tx.Name
	}
	return InstrumentKey{Instrument: instrument, Market: tx.Market, Currency: tx.SettledCurrency}
}

// ExposureEntry is one row of a sector or region breakdown: the cost
// allocated to a classification and its share of total portfolio cost.
type ExposureEntry struct {
	Classification string  `json:"classification"`
	Value          float64 `json:"value"`
	Percentage     float64 `json:"percentage"` // of total cost, rounded to 2 dp
}

// ClassificationWeight is one element of an instrument's externally supplied
// sector or region weighting. Weights need not sum to 1.
type ClassificationWeight struct {
	ClassificationID string  `json:"classification_id"`
	Weight           float64 `json:"weight"`
}
