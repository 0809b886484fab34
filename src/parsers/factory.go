package parsers

import (
	"fmt"

	"github.com/username/kabufolio/src/models"
)

// Format identifiers accepted by GetMapper. The format is declared by the
// caller; it is not auto-detected from content.
const (
	FormatDomesticEquity = "domestic-equity"
	FormatForeignEquity  = "foreign-equity"
	FormatFundUnit       = "fund-unit"
)

// GetMapper returns the row mapper for a declared export format. The source
// tag is stamped onto every transaction the mapper produces.
func GetMapper(format string, source string) (RowMapper, error) {
	switch format {
	case FormatDomesticEquity:
		return &domesticMapper{source: source}, nil
	case FormatForeignEquity:
		return &foreignMapper{source: source}, nil
	case FormatFundUnit:
		return &fundMapper{source: source}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// SubtypeForFormat maps a format identifier to the canonical subtype.
func SubtypeForFormat(format string) (models.Subtype, error) {
	mapper, err := GetMapper(format, "")
	if err != nil {
		return "", err
	}
	return mapper.Subtype(), nil
}
