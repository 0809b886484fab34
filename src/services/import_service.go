package services

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/kabufolio/src/ledger"
	"github.com/username/kabufolio/src/logger"
	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/parsers"
	"github.com/username/kabufolio/src/processors"
)

// parserVersion is stamped into batch metadata so stored rows can be traced
// back to the mapper generation that produced them.
const parserVersion = "1.2.0"

const (
	// Derived-report cache keys. Reports are always recomputed from the full
	// ledger; the cache only short-circuits repeated queries between imports.
	ckPositions      = "res_positions"
	ckExposureSector = "res_exposure_sector"
	ckExposureRegion = "res_exposure_region"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type importServiceImpl struct {
	ledger            *ledger.Ledger
	positionProcessor processors.PositionAggregator
	exposureProcessor processors.ExposureAggregator
	acceptanceChecker *processors.AcceptanceChecker
	reportCache       *cache.Cache
}

func NewImportService(
	txLedger *ledger.Ledger,
	positionProcessor processors.PositionAggregator,
	exposureProcessor processors.ExposureAggregator,
	acceptanceChecker *processors.AcceptanceChecker,
	reportCache *cache.Cache,
) ImportService {
	return &importServiceImpl{
		ledger:            txLedger,
		positionProcessor: positionProcessor,
		exposureProcessor: exposureProcessor,
		acceptanceChecker: acceptanceChecker,
		reportCache:       reportCache,
	}
}

// ImportFile runs the full use case: parse, validate/normalize, dedupe-insert
// and acceptance-check. Row-level problems surface as warnings in the
// summary; only encoding recovery and the ledger write can fail the import.
func (s *importServiceImpl) ImportFile(file io.Reader, format string, source string) (*ImportSummary, error) {
	overallStartTime := time.Now()
	logger.L.Info("ImportFile START", "format", format, "source", source)

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload: %v", parsers.ErrParsingFailed, err)
	}

	subtype, err := parsers.SubtypeForFormat(format)
	if err != nil {
		return nil, err
	}

	result, err := parsers.Parse(bytes.NewReader(raw), format, source)
	if err != nil {
		return nil, err
	}

	meta := models.BatchMetadata{
		BatchID:       uuid.NewString(),
		Source:        source,
		Subtype:       subtype,
		FileHash:      fmt.Sprintf("%016x", xxhash.Sum64(raw)),
		ParserVersion: parserVersion,
		ImportedAt:    time.Now().UTC(),
	}

	counts := ledger.UpsertCounts{}
	if len(result.Transactions) > 0 {
		counts, err = s.ledger.UpsertBatch(meta, result.Transactions)
		if err != nil {
			// No partial commit exists: a failed upsert means the batch is
			// fully not-applied.
			return nil, err
		}
		s.invalidateReportCache()
	}

	summary := &ImportSummary{
		Batch:      meta,
		Counts:     counts,
		Warnings:   result.Warnings,
		Encoding:   result.Encoding,
		Acceptance: s.acceptanceChecker.Check(result.Transactions, counts),
	}

	logger.L.Info("ImportFile END",
		"batchID", meta.BatchID,
		"inserted", counts.Inserted,
		"skipped", counts.Skipped,
		"warnings", len(result.Warnings),
		"duration", time.Since(overallStartTime))
	return summary, nil
}

func (s *importServiceImpl) TransactionsByDateRange(from, to time.Time) ([]models.CanonicalTransaction, error) {
	return s.ledger.ListByDateRange(from, to)
}

// Positions recomputes holdings from the full ledger, caching the result
// until the next import.
func (s *importServiceImpl) Positions() ([]models.Position, error) {
	if cached, found := s.reportCache.Get(ckPositions); found {
		logger.L.Debug("Cache hit for positions")
		return cached.([]models.Position), nil
	}

	txs, err := s.ledger.GetAll()
	if err != nil {
		return nil, err
	}
	positions := s.positionProcessor.Process(txs)
	s.reportCache.Set(ckPositions, positions, DefaultCacheExpiration)
	return positions, nil
}

func (s *importServiceImpl) Exposure(dimension string) ([]models.ExposureEntry, error) {
	var cacheKey string
	switch dimension {
	case "sector":
		cacheKey = ckExposureSector
	case "region":
		cacheKey = ckExposureRegion
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, dimension)
	}

	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for exposure", "dimension", dimension)
		return cached.([]models.ExposureEntry), nil
	}

	positions, err := s.Positions()
	if err != nil {
		return nil, err
	}

	asOf := time.Now().UTC()
	var entries []models.ExposureEntry
	if dimension == "sector" {
		entries = s.exposureProcessor.SectorBreakdown(positions, asOf)
	} else {
		entries = s.exposureProcessor.RegionBreakdown(positions, asOf)
	}
	s.reportCache.Set(cacheKey, entries, DefaultCacheExpiration)
	return entries, nil
}

// invalidateReportCache drops every derived report so the next query
// recomputes from the ledger.
func (s *importServiceImpl) invalidateReportCache() {
	for _, key := range []string{ckPositions, ckExposureSector, ckExposureRegion} {
		s.reportCache.Delete(key)
	}
	logger.L.Debug("Invalidated derived-report caches")
}
