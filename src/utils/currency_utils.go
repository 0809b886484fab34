package utils

import "strings"

// currencyLabels maps the free-text currency labels that appear in export
// files to ISO 4217 codes. Export tools write labels, not codes, and the
// wording varies across versions, so lookup is done on the trimmed label.
var currencyLabels = map[string]string{
	"円":         "JPY",
	"日本円":       "JPY",
	"USドル":      "USD",
	"米ドル":       "USD",
	"米国ドル":      "USD",
	"ユーロ":       "EUR",
	"英ポンド":      "GBP",
	"ポンド":       "GBP",
	"豪ドル":       "AUD",
	"カナダドル":     "CAD",
	"香港ドル":      "HKD",
	"人民元":       "CNY",
	"中国元":       "CNY",
	"シンガポールドル":  "SGD",
	"スイスフラン":    "CHF",
	"ニュージーランドドル": "NZD",
	"韓国ウォン":     "KRW",
}

// NormalizeCurrencyLabel converts a free-text currency label to an ISO code.
// It is total: unrecognized labels fall back to the uppercased label
// truncated to three characters, so ambiguity surfaces in the output instead
// of being silently absorbed.
func NormalizeCurrencyLabel(label string) string {
	s := strings.TrimSpace(label)
	if s == "" {
		return ""
	}
	if code, ok := currencyLabels[s]; ok {
		return code
	}
	upper := strings.ToUpper(s)
	runes := []rune(upper)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
