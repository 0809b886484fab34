package processors

import (
	"time"

	"github.com/username/kabufolio/src/models"
)

// PositionAggregator folds transactions into per-instrument positions.
type PositionAggregator interface {
	Process(txs []models.CanonicalTransaction) []models.Position
	ProcessTrades(trades []Trade) []models.Position
}

// ExposureAggregator produces classification breakdowns from positions.
type ExposureAggregator interface {
	SectorBreakdown(positions []models.Position, asOf time.Time) []models.ExposureEntry
	RegionBreakdown(positions []models.Position, asOf time.Time) []models.ExposureEntry
}

// WeightLookup is the external collaborator supplying per-instrument sector
// and region weightings. Returned weights need not sum to 1. An error or an
// empty result means "no data" and triggers the aggregator's fallback
// weighting; it never fails the aggregation.
type WeightLookup interface {
	SectorExposure(instrument models.InstrumentKey, asOf time.Time) ([]models.ClassificationWeight, error)
	RegionExposure(instrument models.InstrumentKey, asOf time.Time) ([]models.ClassificationWeight, error)
}
