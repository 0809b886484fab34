package weights

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/username/kabufolio/src/models"
)

const sampleWeightData = `{
  "instruments": {
    "7203": {
      "sectors": [{"classification_id": "automotive", "weight": 1.0}],
      "regions": [{"classification_id": "japan", "weight": 1.0}]
    },
    "VT": {
      "sectors": [{"classification_id": "diversified", "weight": 1.0}],
      "regions": [
        {"classification_id": "north-america", "weight": 0.6},
        {"classification_id": "europe", "weight": 0.2},
        {"classification_id": "asia-pacific", "weight": 0.2}
      ]
    }
  }
}`

func writeWeightFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadFileLookup(t *testing.T) {
	lookup, err := LoadFileLookup(writeWeightFile(t, sampleWeightData))
	if err != nil {
		t.Fatalf("LoadFileLookup: %v", err)
	}

	key := models.InstrumentKey{Instrument: "7203", Market: "東証", Currency: "JPY"}
	sectors, err := lookup.SectorExposure(key, time.Now())
	if err != nil {
		t.Fatalf("SectorExposure: %v", err)
	}
	if len(sectors) != 1 || sectors[0].ClassificationID != "automotive" || sectors[0].Weight != 1.0 {
		t.Errorf("sectors = %v", sectors)
	}

	regions, err := lookup.RegionExposure(models.InstrumentKey{Instrument: "VT"}, time.Now())
	if err != nil {
		t.Fatalf("RegionExposure: %v", err)
	}
	if len(regions) != 3 {
		t.Errorf("got %d region weights, want 3", len(regions))
	}
}

func TestLookup_MissingInstrumentReportsNoData(t *testing.T) {
	lookup, err := LoadFileLookup(writeWeightFile(t, sampleWeightData))
	if err != nil {
		t.Fatalf("LoadFileLookup: %v", err)
	}

	key := models.InstrumentKey{Instrument: "9999"}
	sectors, err := lookup.SectorExposure(key, time.Now())
	if err != nil {
		t.Fatalf("missing instrument must not error: %v", err)
	}
	if sectors != nil {
		t.Errorf("missing instrument returned data: %v", sectors)
	}
}

func TestLoadFileLookup_Errors(t *testing.T) {
	if _, err := LoadFileLookup(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadFileLookup(writeWeightFile(t, "{not json")); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestEmpty(t *testing.T) {
	lookup := Empty()
	sectors, err := lookup.SectorExposure(models.InstrumentKey{Instrument: "7203"}, time.Now())
	if err != nil || sectors != nil {
		t.Errorf("empty lookup = (%v, %v), want no data and no error", sectors, err)
	}
}
