package parsers

import (
	"testing"

	"github.com/username/kabufolio/src/models"
)

func TestMapTradeType(t *testing.T) {
	tests := []struct {
		label string
		want  models.TradeType
	}{
		{"現物買", models.TradeBuy},
		{"買付", models.TradeBuy},
		{"現物売", models.TradeSell},
		{"売付", models.TradeSell},
		{"配当金", models.TradeDividend},
		{"分配金", models.TradeDividend},
		// Reinvestment labels contain 分配金 but are purchases.
		{"分配金再投資", models.TradeBuy},
		{"再投資買付", models.TradeBuy},
		{"利金", models.TradeInterest},
		{"外貨利息", models.TradeInterest},
		{"貸株料", models.TradeStaking},
		{"口座管理料", models.TradeFee},
		{"入庫", models.TradeTransferIn},
		{"出庫", models.TradeTransferOut},
		{"解約", models.TradeSell},
		{"償還", models.TradeSell},
		{"株式分割", models.TradeOther},
		{"", models.TradeOther},
	}
	for _, tt := range tests {
		if got := mapTradeType(tt.label); got != tt.want {
			t.Errorf("mapTradeType(%q) = %s, want %s", tt.label, got, tt.want)
		}
	}
}
