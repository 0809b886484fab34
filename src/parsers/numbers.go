package parsers

import (
	"math"
	"strconv"
	"strings"

	"github.com/username/kabufolio/src/models"
)

var numberCleaner = strings.NewReplacer(
	",", "",
	"，", "",
	"¥", "",
	"￥", "",
	"$", "",
	"円", "",
	" ", "",
	"　", "", // fullwidth space
)

// parseNumber coerces an export cell to a number, stripping thousands
// separators and currency symbols. The ▲/△ prefixes and parentheses both
// mark negative amounts in these exports.
func parseNumber(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" || cleaned == "-" || cleaned == "—" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(cleaned, "▲") || strings.HasPrefix(cleaned, "△") {
		negative = true
		cleaned = strings.TrimPrefix(strings.TrimPrefix(cleaned, "▲"), "△")
	}
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	cleaned = numberCleaner.Replace(cleaned)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// parseAmount is parseNumber for cost-like fields: non-numeric resolves to 0.
func parseAmount(s string) float64 {
	v, _ := parseNumber(s)
	return v
}

// applySettlementSign imposes the trade type's expected sign on the parsed
// settlement amount. Exports are inconsistent about signed vs. unsigned
// amounts, so the row's own sign is only trusted when the type's sign is
// unconstrained.
func applySettlementSign(t models.TradeType, amount float64) float64 {
	switch models.ExpectedSettlementSign(t) {
	case -1:
		return -math.Abs(amount)
	case +1:
		return math.Abs(amount)
	default:
		return amount
	}
}
