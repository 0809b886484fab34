package processors

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/username/kabufolio/src/models"
)

// stubLookup serves canned weights and can be forced to fail.
type stubLookup struct {
	sectors map[string][]models.ClassificationWeight
	regions map[string][]models.ClassificationWeight
	err     error
}

func (s *stubLookup) SectorExposure(key models.InstrumentKey, _ time.Time) ([]models.ClassificationWeight, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sectors[key.Instrument], nil
}

func (s *stubLookup) RegionExposure(key models.InstrumentKey, _ time.Time) ([]models.ClassificationWeight, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.regions[key.Instrument], nil
}

func position(instrument, market string, cost float64) models.Position {
	return models.Position{
		Key:         models.InstrumentKey{Instrument: instrument, Market: market, Currency: "JPY"},
		QuantityNet: 100,
		TotalCost:   cost,
	}
}

func TestSectorBreakdown_ProportionalDistribution(t *testing.T) {
	lookup := &stubLookup{sectors: map[string][]models.ClassificationWeight{
		"9984": {
			{ClassificationID: "telecom", Weight: 0.4},
			{ClassificationID: "technology", Weight: 0.6},
		},
		"7203": {
			{ClassificationID: "automotive", Weight: 1.0},
		},
	}}
	p := NewExposureProcessor(lookup)

	entries := p.SectorBreakdown([]models.Position{
		position("9984", "東証", 100000),
		position("7203", "東証", 100000),
	}, time.Now())

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %v", len(entries), entries)
	}
	// Sorted descending by value: automotive 100000, technology 60000, telecom 40000.
	if entries[0].Classification != "automotive" || entries[0].Value != 100000 {
		t.Errorf("entries[0] = %+v, want automotive 100000", entries[0])
	}
	if entries[1].Classification != "technology" || entries[1].Value != 60000 {
		t.Errorf("entries[1] = %+v, want technology 60000", entries[1])
	}
	if entries[2].Classification != "telecom" || entries[2].Value != 40000 {
		t.Errorf("entries[2] = %+v, want telecom 40000", entries[2])
	}

	var pctSum float64
	for _, e := range entries {
		pctSum += e.Percentage
	}
	if math.Abs(pctSum-100) > 0.02 {
		t.Errorf("percentages sum to %v, want ~100", pctSum)
	}
}

func TestSectorBreakdown_WeightsNeedNotSumToOne(t *testing.T) {
	// Weights 2 and 6 distribute 25% / 75%.
	lookup := &stubLookup{sectors: map[string][]models.ClassificationWeight{
		"7203": {
			{ClassificationID: "automotive", Weight: 6},
			{ClassificationID: "technology", Weight: 2},
		},
	}}
	p := NewExposureProcessor(lookup)

	entries := p.SectorBreakdown([]models.Position{position("7203", "東証", 80000)}, time.Now())
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Value != 60000 || entries[1].Value != 20000 {
		t.Errorf("values = %v / %v, want 60000 / 20000", entries[0].Value, entries[1].Value)
	}
}

func TestSectorBreakdown_MissingDataFallsBackToUnclassified(t *testing.T) {
	p := NewExposureProcessor(&stubLookup{})
	entries := p.SectorBreakdown([]models.Position{position("7203", "東証", 50000)}, time.Now())
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Classification != UnclassifiedSector || entries[0].Percentage != 100 {
		t.Errorf("fallback entry = %+v", entries[0])
	}
}

func TestSectorBreakdown_LookupErrorFallsBack(t *testing.T) {
	p := NewExposureProcessor(&stubLookup{err: errors.New("weight source unavailable")})
	entries := p.SectorBreakdown([]models.Position{position("7203", "東証", 50000)}, time.Now())
	if len(entries) != 1 || entries[0].Classification != UnclassifiedSector {
		t.Errorf("lookup error did not fall back to unclassified: %v", entries)
	}
}

func TestSectorBreakdown_NonPositiveWeightsFallBack(t *testing.T) {
	lookup := &stubLookup{sectors: map[string][]models.ClassificationWeight{
		"7203": {{ClassificationID: "automotive", Weight: -1}},
	}}
	p := NewExposureProcessor(lookup)
	entries := p.SectorBreakdown([]models.Position{position("7203", "東証", 50000)}, time.Now())
	if len(entries) != 1 || entries[0].Classification != UnclassifiedSector {
		t.Errorf("non-positive weights did not fall back: %v", entries)
	}
}

func TestSectorBreakdown_ExcludesNonPositiveCost(t *testing.T) {
	lookup := &stubLookup{sectors: map[string][]models.ClassificationWeight{
		"7203": {{ClassificationID: "automotive", Weight: 1}},
		"6758": {{ClassificationID: "technology", Weight: 1}},
	}}
	p := NewExposureProcessor(lookup)

	entries := p.SectorBreakdown([]models.Position{
		position("7203", "東証", 50000),
		position("6758", "東証", 0), // fully sold
		position("9984", "東証", -1),
	}, time.Now())

	if len(entries) != 1 || entries[0].Classification != "automotive" {
		t.Errorf("closed positions leaked into the breakdown: %v", entries)
	}
	if entries[0].Percentage != 100 {
		t.Errorf("percentage = %v, want 100", entries[0].Percentage)
	}
}

func TestSectorBreakdown_EmptyPortfolio(t *testing.T) {
	p := NewExposureProcessor(&stubLookup{})
	if entries := p.SectorBreakdown(nil, time.Now()); entries != nil {
		t.Errorf("empty portfolio produced entries: %v", entries)
	}
}

func TestRegionBreakdown_FallsBackToMarketInference(t *testing.T) {
	p := NewExposureProcessor(&stubLookup{})
	entries := p.RegionBreakdown([]models.Position{
		position("7203", "東証プライム", 60000),
		position("AAPL", "NASDAQ", 40000),
	}, time.Now())

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(entries), entries)
	}
	if entries[0].Classification != "japan" || entries[0].Value != 60000 {
		t.Errorf("entries[0] = %+v, want japan 60000", entries[0])
	}
	if entries[1].Classification != "north-america" || entries[1].Value != 40000 {
		t.Errorf("entries[1] = %+v, want north-america 40000", entries[1])
	}
}

func TestRegionFromMarket(t *testing.T) {
	tests := []struct {
		market string
		want   string
	}{
		{"東証", "japan"},
		{"東証プライム", "japan"},
		{"名証", "japan"},
		{string(models.SubtypeDomesticEquity), "japan"},
		{string(models.SubtypeFundUnit), "japan"},
		{"NYSE", "north-america"},
		{"NASDAQ", "north-america"},
		{"香港", "china"},
		{"上海", "china"},
		{"LSE", "europe"},
		{"未知の市場", "other"},
		{"", "other"},
	}
	for _, tt := range tests {
		if got := RegionFromMarket(tt.market); got != tt.want {
			t.Errorf("RegionFromMarket(%q) = %q, want %q", tt.market, got, tt.want)
		}
	}
}
