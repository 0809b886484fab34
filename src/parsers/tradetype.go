package parsers

import (
	"strings"

	"github.com/username/kabufolio/src/models"
)

// tradeTypeRules map substrings of the export's trade-type labels to
// canonical trade types. Order matters: reinvestment buys contain 分配金,
// and 買/売 appear inside many compound labels, so the specific rules come
// first and the single-character trade rules last.
var tradeTypeRules = []struct {
	keyword string
	t       models.TradeType
}{
	{"再投資", models.TradeBuy},
	{"配当", models.TradeDividend},
	{"分配金", models.TradeDividend},
	{"利金", models.TradeInterest},
	{"利息", models.TradeInterest},
	{"利払", models.TradeInterest},
	{"貸株", models.TradeStaking},
	{"ステーキング", models.TradeStaking},
	{"手数料", models.TradeFee},
	{"管理料", models.TradeFee},
	{"入庫", models.TradeTransferIn},
	{"入金", models.TradeTransferIn},
	{"出庫", models.TradeTransferOut},
	{"出金", models.TradeTransferOut},
	{"解約", models.TradeSell},
	{"償還", models.TradeSell},
	{"買", models.TradeBuy},
	{"売", models.TradeSell},
}

// mapTradeType classifies an export trade-type label. Unrecognized labels
// land in the open "other" bucket rather than failing the row.
func mapTradeType(label string) models.TradeType {
	l := strings.TrimSpace(label)
	if l == "" {
		return models.TradeOther
	}
	for _, rule := range tradeTypeRules {
		if strings.Contains(l, rule.keyword) {
			return rule.t
		}
	}
	return models.TradeOther
}
