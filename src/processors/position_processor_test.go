package processors

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/username/kabufolio/src/models"
)

func trade(instrument string, t models.TradeType, qty, amount float64) Trade {
	return Trade{
		Instrument: instrument,
		Market:     "東証",
		Currency:   "JPY",
		TradeType:  t,
		Quantity:   qty,
		Amount:     amount,
	}
}

func TestProcessTrades_WeightedAverageCost(t *testing.T) {
	p := NewPositionProcessor()

	// Buy 100 for 10000 total, sell 40: cost drops by 40 x avg(100) = 4000.
	positions := p.ProcessTrades([]Trade{
		trade("7203", models.TradeBuy, 100, -10000),
		trade("7203", models.TradeSell, 40, 4800),
	})
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	want := models.Position{
		Key:         models.InstrumentKey{Instrument: "7203", Market: "東証", Currency: "JPY"},
		QuantityNet: 60,
		TotalCost:   6000,
		AvgPrice:    100,
	}
	if diff := cmp.Diff(want, positions[0]); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessTrades_FullSellZeroesPosition(t *testing.T) {
	p := NewPositionProcessor()
	positions := p.ProcessTrades([]Trade{
		trade("7203", models.TradeBuy, 100, -10000),
		trade("7203", models.TradeSell, 100, 11000),
	})
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	pos := positions[0]
	if pos.QuantityNet != 0 || pos.TotalCost != 0 || pos.AvgPrice != 0 {
		t.Errorf("closed position not zeroed: %+v", pos)
	}
}

func TestProcessTrades_AveragingAcrossBuys(t *testing.T) {
	p := NewPositionProcessor()
	// 100 @ 100 then 100 @ 200: average cost 150.
	positions := p.ProcessTrades([]Trade{
		trade("7203", models.TradeBuy, 100, -10000),
		trade("7203", models.TradeBuy, 100, -20000),
	})
	if got := positions[0].AvgPrice; got != 150 {
		t.Errorf("avg price = %v, want 150", got)
	}
	if got := positions[0].TotalCost; got != 30000 {
		t.Errorf("total cost = %v, want 30000", got)
	}
}

func TestProcessTrades_OversellGoesNegativeWithZeroCost(t *testing.T) {
	p := NewPositionProcessor()
	// Selling more than held (exports can be partial): quantity goes
	// negative, cost floors at zero instead of turning into phantom credit.
	positions := p.ProcessTrades([]Trade{
		trade("7203", models.TradeBuy, 100, -10000),
		trade("7203", models.TradeSell, 150, 16000),
	})
	pos := positions[0]
	if pos.QuantityNet != -50 {
		t.Errorf("quantity = %v, want -50", pos.QuantityNet)
	}
	if pos.TotalCost != 0 {
		t.Errorf("cost = %v, want 0", pos.TotalCost)
	}
	if pos.AvgPrice != 0 {
		t.Errorf("avg price = %v, want 0 for non-positive quantity", pos.AvgPrice)
	}
}

func TestProcessTrades_NonTradeTypesLeaveHoldingUntouched(t *testing.T) {
	p := NewPositionProcessor()
	positions := p.ProcessTrades([]Trade{
		trade("7203", models.TradeBuy, 100, -10000),
		trade("7203", models.TradeDividend, 100, 3500),
		trade("7203", models.TradeFee, 1, -300),
		trade("7203", models.TradeInterest, 1, 12),
	})
	pos := positions[0]
	if pos.QuantityNet != 100 || pos.TotalCost != 10000 {
		t.Errorf("non-trade rows moved the holding: %+v", pos)
	}
}

func TestProcessTrades_SeparateKeysStaySeparate(t *testing.T) {
	p := NewPositionProcessor()
	trades := []Trade{
		trade("7203", models.TradeBuy, 100, -10000),
		{Instrument: "7203", Market: "名証", Currency: "JPY", TradeType: models.TradeBuy, Quantity: 50, Amount: -5000},
		{Instrument: "AAPL", Market: "NASDAQ", Currency: "USD", TradeType: models.TradeBuy, Quantity: 10, Amount: -1700},
	}
	positions := p.ProcessTrades(trades)
	if len(positions) != 3 {
		t.Fatalf("got %d positions, want 3", len(positions))
	}
	// Sorted by instrument, then market, then currency.
	if positions[0].Key.Instrument != "7203" || positions[2].Key.Instrument != "AAPL" {
		t.Errorf("positions not sorted: %v", positions)
	}
	if positions[0].Key.Market >= positions[1].Key.Market {
		t.Errorf("same-instrument positions not sorted by market: %v, %v",
			positions[0].Key, positions[1].Key)
	}
}

func TestProcess_DerivesMarketFromSubtype(t *testing.T) {
	p := NewPositionProcessor()
	tx, err := models.NewCanonicalTransaction(models.CanonicalTransaction{
		Source:          "rakuten",
		Subtype:         models.SubtypeFundUnit,
		TradeDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Name:            "eMAXIS Slim 全世界株式",
		TradeType:       models.TradeBuy,
		Quantity:        10000,
		QuantityUnit:    "口",
		Currency:        "JPY",
		SettledAmount:   -9700,
		SettledCurrency: "JPY",
	})
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}

	positions := p.Process([]models.CanonicalTransaction{tx})
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	key := positions[0].Key
	if key.Market != string(models.SubtypeFundUnit) {
		t.Errorf("market = %q, want subtype placeholder", key.Market)
	}
	if key.Instrument != "eMAXIS Slim 全世界株式" {
		t.Errorf("instrument = %q, want fund name fallback", key.Instrument)
	}
}
