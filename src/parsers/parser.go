// Package parsers turns raw broker export files into canonical transactions.
// The caller declares which of the three known layouts the file uses; the
// package recovers a correct text decoding, locates columns tolerantly and
// maps rows one by one, collecting per-row failures as warnings instead of
// aborting the batch.
package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/kabufolio/src/logger"
	"github.com/username/kabufolio/src/models"
)

var (
	ErrParsingFailed = errors.New("parsing failed")
	ErrUnknownFormat = errors.New("unknown export format")
)

// RowWarning records a single skipped row and why it was skipped.
type RowWarning struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ParseResult is the outcome of parsing one export file. A result with zero
// transactions and only warnings is still a successful parse.
type ParseResult struct {
	Transactions []models.CanonicalTransaction `json:"transactions"`
	Warnings     []RowWarning                  `json:"warnings"`
	Encoding     string                        `json:"encoding"`
}

// RowMapper maps rows of one declared export layout into canonical
// transactions. Bind resolves the layout's columns against the header once;
// MapRow converts a single data row.
type RowMapper interface {
	Subtype() models.Subtype
	Bind(header []string) error
	MapRow(row []string) (models.CanonicalTransaction, error)
}

// Parse reads a whole export file, recovers its encoding and maps every row
// for the declared format. Only an unreadable input, an implausible decoding
// or an unknown format fail the parse; row-level problems become warnings.
func Parse(file io.Reader, format string, source string) (ParseResult, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: reading input: %v", ErrParsingFailed, err)
	}

	mapper, err := GetMapper(format, source)
	if err != nil {
		return ParseResult{}, err
	}

	text, encodingName, err := DecodeExport(raw)
	if err != nil {
		return ParseResult{}, err
	}

	result := ParseResult{Encoding: encodingName}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return ParseResult{}, fmt.Errorf("%w: reading rows: %v", ErrParsingFailed, err)
	}

	headerIdx := -1
	for i, record := range records {
		if !isBlankRow(record) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		result.Warnings = append(result.Warnings, RowWarning{Line: 1, Reason: "file contains no rows"})
		return result, nil
	}

	if err := mapper.Bind(records[headerIdx]); err != nil {
		// A header the mapper cannot bind means every row would fail; that
		// is reported as a warning, not a hard error.
		result.Warnings = append(result.Warnings, RowWarning{Line: headerIdx + 1, Reason: err.Error()})
		logger.L.Warn("Header binding failed, skipping all rows",
			"format", format, "reason", err.Error())
		return result, nil
	}

	for i := headerIdx + 1; i < len(records); i++ {
		if isBlankRow(records[i]) {
			continue
		}
		tx, err := mapper.MapRow(records[i])
		if err != nil {
			result.Warnings = append(result.Warnings, RowWarning{Line: i + 1, Reason: err.Error()})
			logger.L.Debug("Skipping row", "line", i+1, "reason", err.Error())
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	if len(result.Transactions) == 0 && len(result.Warnings) > 0 {
		logger.L.Warn("No rows converted from export file",
			"format", format, "warnings", len(result.Warnings))
	}
	return result, nil
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
