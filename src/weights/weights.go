// Package weights supplies per-instrument sector and region weightings for
// the exposure aggregator. The backing data is a JSON file loaded once at
// startup; instruments missing from it simply report no data, which the
// aggregator turns into its fallback bucket.
package weights

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/username/kabufolio/src/logger"
	"github.com/username/kabufolio/src/models"
)

type instrumentWeights struct {
	Sectors []models.ClassificationWeight `json:"sectors"`
	Regions []models.ClassificationWeight `json:"regions"`
}

type weightFile struct {
	Instruments map[string]instrumentWeights `json:"instruments"`
}

// FileLookup resolves weights from a startup-loaded data file, keyed by the
// instrument's symbol-or-name.
type FileLookup struct {
	instruments map[string]instrumentWeights
}

// LoadFileLookup reads and decodes the weight data file.
func LoadFileLookup(filePath string) (*FileLookup, error) {
	logger.L.Info("Loading instrument weight data", "path", filePath)
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read weight data file '%s': %w", filePath, err)
	}

	var parsed weightFile
	if err := json.Unmarshal(fileData, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weight data from '%s': %w", filePath, err)
	}

	logger.L.Info("Instrument weight data loaded", "path", filePath, "instrumentCount", len(parsed.Instruments))
	return &FileLookup{instruments: parsed.Instruments}, nil
}

// Empty returns a lookup that has no data for any instrument. Used when the
// data file is absent so the exposure pipeline still runs on fallbacks.
func Empty() *FileLookup {
	return &FileLookup{instruments: map[string]instrumentWeights{}}
}

// SectorExposure returns the sector weighting for an instrument, or no data.
// The file is a point-in-time snapshot, so asOf is not consulted.
func (l *FileLookup) SectorExposure(instrument models.InstrumentKey, asOf time.Time) ([]models.ClassificationWeight, error) {
	if w, ok := l.instruments[instrument.Instrument]; ok {
		return w.Sectors, nil
	}
	return nil, nil
}

// RegionExposure returns the region weighting for an instrument, or no data.
func (l *FileLookup) RegionExposure(instrument models.InstrumentKey, asOf time.Time) ([]models.ClassificationWeight, error) {
	if w, ok := l.instruments[instrument.Instrument]; ok {
		return w.Regions, nil
	}
	return nil, nil
}
