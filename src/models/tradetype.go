package models

// TradeType classifies the economic nature of a transaction.
type TradeType string

const (
	TradeBuy         TradeType = "buy"
	TradeSell        TradeType = "sell"
	TradeDividend    TradeType = "dividend"
	TradeInterest    TradeType = "interest"
	TradeStaking     TradeType = "staking"
	TradeFee         TradeType = "fee"
	TradeTransferIn  TradeType = "transfer-in"
	TradeTransferOut TradeType = "transfer-out"
	TradeOther       TradeType = "other"
)

// Subtype identifies which of the three export layouts a transaction came from.
type Subtype string

const (
	SubtypeDomesticEquity Subtype = "domestic-equity"
	SubtypeForeignEquity  Subtype = "foreign-equity"
	SubtypeFundUnit       Subtype = "fund-unit"
)

// ExpectedSettlementSign returns the sign convention for a trade type's
// settled amount: -1 for cash outflow, +1 for inflow, 0 when unconstrained.
// Source exports are inconsistent about signed vs. unsigned amounts, so the
// row mappers impose this sign on the absolute parsed amount, and the
// acceptance check reconciles against it after import.
func ExpectedSettlementSign(t TradeType) int {
	switch t {
	case TradeBuy, TradeFee, TradeTransferOut:
		return -1
	case TradeSell, TradeDividend, TradeInterest, TradeStaking, TradeTransferIn:
		return +1
	default:
		return 0
	}
}
