package services

import (
	"errors"
	"io"
	"time"

	"github.com/username/kabufolio/src/ledger"
	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/parsers"
	"github.com/username/kabufolio/src/processors"
)

// ErrUnknownDimension is returned for exposure dimensions other than
// "sector" and "region".
var ErrUnknownDimension = errors.New("unknown exposure dimension")

// ImportSummary is what one import produces: the batch provenance, dedup
// counts, per-row warnings and the advisory acceptance report.
type ImportSummary struct {
	Batch      models.BatchMetadata        `json:"batch"`
	Counts     ledger.UpsertCounts         `json:"counts"`
	Warnings   []parsers.RowWarning        `json:"warnings"`
	Encoding   string                      `json:"encoding"`
	Acceptance processors.AcceptanceReport `json:"acceptance"`
}

// ImportService is the import orchestrator: it composes parsing, validation,
// dedup-insert and the acceptance check, and is the only component that
// talks to the persistence collaborator.
type ImportService interface {
	ImportFile(file io.Reader, format string, source string) (*ImportSummary, error)
	TransactionsByDateRange(from, to time.Time) ([]models.CanonicalTransaction, error)
	Positions() ([]models.Position, error)
	Exposure(dimension string) ([]models.ExposureEntry, error)
}
