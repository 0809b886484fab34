package processors

import (
	"math"
	"sort"

	"github.com/username/kabufolio/src/models"
)

// Trade is the minimal shape the position fold needs: one settlement-currency
// cash movement against one instrument.
type Trade struct {
	Instrument string
	Market     string
	Currency   string
	TradeType  models.TradeType
	Quantity   float64
	Amount     float64 // signed settled amount
}

// PositionProcessor derives per-instrument holdings using the
// weighted-average-cost method: a sale reduces cost basis proportionally to
// the current average cost, never against specific lots.
type PositionProcessor struct{}

func NewPositionProcessor() *PositionProcessor { return &PositionProcessor{} }

// Process folds canonical transactions into positions. Transactions without
// an explicit market get one derived from their subtype, so fund-unit rows
// (which carry no market column) still group consistently.
func (p *PositionProcessor) Process(txs []models.CanonicalTransaction) []models.Position {
	trades := make([]Trade, 0, len(txs))
	for _, tx := range txs {
		key := tx.InstrumentKey()
		if key.Market == "" {
			key.Market = string(tx.Subtype)
		}
		trades = append(trades, Trade{
			Instrument: key.Instrument,
			Market:     key.Market,
			Currency:   key.Currency,
			TradeType:  tx.TradeType,
			Quantity:   tx.Quantity,
			Amount:     tx.SettledAmount,
		})
	}
	return p.ProcessTrades(trades)
}

// ProcessTrades is the single-pass fold. Buys add cost and quantity; sells
// remove the sold quantity and currentAvg x soldQuantity of cost, floored at
// zero so a loss beyond remaining basis never drives cost negative. Every
// other trade type leaves quantity and cost untouched. Cost-basis
// correctness assumes the input is folded chronologically.
func (p *PositionProcessor) ProcessTrades(trades []Trade) []models.Position {
	type state struct {
		quantity float64
		cost     float64
	}
	acc := make(map[models.InstrumentKey]*state)

	for _, trade := range trades {
		key := models.InstrumentKey{Instrument: trade.Instrument, Market: trade.Market, Currency: trade.Currency}
		st, ok := acc[key]
		if !ok {
			st = &state{}
			acc[key] = st
		}

		switch trade.TradeType {
		case models.TradeBuy:
			st.cost += math.Abs(trade.Amount)
			st.quantity += trade.Quantity
		case models.TradeSell:
			currentAvg := 0.0
			if st.quantity > 0 {
				currentAvg = st.cost / st.quantity
			}
			st.cost -= currentAvg * trade.Quantity
			if st.cost < 0 {
				st.cost = 0
			}
			st.quantity -= trade.Quantity
		default:
			// Dividends, interest, fees and transfers do not move the
			// holding's quantity or cost basis.
		}
	}

	positions := make([]models.Position, 0, len(acc))
	for key, st := range acc {
		avgPrice := 0.0
		if st.quantity > 0 {
			avgPrice = st.cost / st.quantity
		}
		positions = append(positions, models.Position{
			Key:         key,
			QuantityNet: st.quantity,
			TotalCost:   st.cost,
			AvgPrice:    avgPrice,
		})
	}

	sort.Slice(positions, func(i, j int) bool {
		a, b := positions[i].Key, positions[j].Key
		if a.Instrument != b.Instrument {
			return a.Instrument < b.Instrument
		}
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		return a.Currency < b.Currency
	})
	return positions
}
