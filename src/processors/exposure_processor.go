package processors

import (
	"sort"
	"strings"
	"time"

	"github.com/username/kabufolio/src/logger"
	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/utils"
)

// UnclassifiedSector is the fallback bucket for instruments the weight
// lookup has no sector data for.
const UnclassifiedSector = "unclassified"

// ExposureProcessor distributes each position's cost across classification
// buckets using externally supplied weights.
type ExposureProcessor struct {
	lookup WeightLookup
}

func NewExposureProcessor(lookup WeightLookup) *ExposureProcessor {
	return &ExposureProcessor{lookup: lookup}
}

// SectorBreakdown returns the portfolio's cost distributed over sectors,
// sorted descending by value, with percentages of total cost.
func (p *ExposureProcessor) SectorBreakdown(positions []models.Position, asOf time.Time) []models.ExposureEntry {
	return p.breakdown(positions, asOf, p.sectorWeights)
}

// RegionBreakdown is SectorBreakdown over regions; positions with no region
// data fall into a bucket inferred from their market prefix.
func (p *ExposureProcessor) RegionBreakdown(positions []models.Position, asOf time.Time) []models.ExposureEntry {
	return p.breakdown(positions, asOf, p.regionWeights)
}

func (p *ExposureProcessor) sectorWeights(pos models.Position, asOf time.Time) []models.ClassificationWeight {
	weights, err := p.lookup.SectorExposure(pos.Key, asOf)
	if err != nil {
		logger.L.Debug("Sector lookup failed, using fallback bucket",
			"instrument", pos.Key.Instrument, "error", err)
		weights = nil
	}
	if len(weights) == 0 {
		return []models.ClassificationWeight{{ClassificationID: UnclassifiedSector, Weight: 1}}
	}
	return weights
}

func (p *ExposureProcessor) regionWeights(pos models.Position, asOf time.Time) []models.ClassificationWeight {
	weights, err := p.lookup.RegionExposure(pos.Key, asOf)
	if err != nil {
		logger.L.Debug("Region lookup failed, using fallback bucket",
			"instrument", pos.Key.Instrument, "error", err)
		weights = nil
	}
	if len(weights) == 0 {
		return []models.ClassificationWeight{{ClassificationID: RegionFromMarket(pos.Key.Market), Weight: 1}}
	}
	return weights
}

// breakdown distributes every positive-cost position's cost proportionally to
// its weights and accumulates per-classification totals. Positions with
// non-positive cost cannot be weighted meaningfully and are excluded.
func (p *ExposureProcessor) breakdown(
	positions []models.Position,
	asOf time.Time,
	weightsFor func(models.Position, time.Time) []models.ClassificationWeight,
) []models.ExposureEntry {
	totals := make(map[string]float64)
	totalCost := 0.0

	for _, pos := range positions {
		if pos.TotalCost <= 0 {
			continue
		}
		weights := weightsFor(pos, asOf)

		weightSum := 0.0
		for _, w := range weights {
			if w.Weight > 0 {
				weightSum += w.Weight
			}
		}
		if weightSum <= 0 {
			totals[UnclassifiedSector] += pos.TotalCost
			totalCost += pos.TotalCost
			continue
		}

		for _, w := range weights {
			if w.Weight <= 0 {
				continue
			}
			totals[w.ClassificationID] += pos.TotalCost * (w.Weight / weightSum)
		}
		totalCost += pos.TotalCost
	}

	if totalCost <= 0 {
		return nil
	}

	entries := make([]models.ExposureEntry, 0, len(totals))
	for classification, value := range totals {
		entries = append(entries, models.ExposureEntry{
			Classification: classification,
			Value:          utils.RoundFloat(value, 2),
			Percentage:     utils.RoundFloat(value/totalCost*100, 2),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Classification < entries[j].Classification
	})
	return entries
}

// Market prefixes that pin a region when no explicit region data exists.
// Subtype-derived placeholder markets land in "japan" because both the
// domestic-equity and fund-unit layouts are yen-settled domestic products.
var regionByMarketPrefix = []struct {
	prefix string
	region string
}{
	{"東証", "japan"},
	{"名証", "japan"},
	{"福証", "japan"},
	{"札証", "japan"},
	{string(models.SubtypeDomesticEquity), "japan"},
	{string(models.SubtypeFundUnit), "japan"},
	{"NYSE", "north-america"},
	{"NASDAQ", "north-america"},
	{"AMEX", "north-america"},
	{"香港", "china"},
	{"上海", "china"},
	{"深セン", "china"},
	{"LSE", "europe"},
	{"ロンドン", "europe"},
}

// RegionFromMarket infers a region bucket from a market name prefix.
func RegionFromMarket(market string) string {
	m := strings.TrimSpace(market)
	for _, rule := range regionByMarketPrefix {
		if strings.HasPrefix(m, rule.prefix) {
			return rule.region
		}
	}
	return "other"
}
