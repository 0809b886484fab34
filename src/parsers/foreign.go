package parsers

import (
	"fmt"
	"strings"

	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/utils"
)

// foreignMapper handles the foreign-equity layout. The layout carries both a
// yen settlement column and a local-currency settlement column; a selector
// column says which one is authoritative for the row.
type foreignMapper struct {
	source string
	idx    columnIndex
}

var foreignColumns = []column{
	{field: "tradeDate", required: true, candidates: []string{"約定日", "約定年月日"}},
	{field: "settleDate", candidates: []string{"受渡日", "受渡年月日"}},
	{field: "symbol", candidates: []string{"ティッカー", "シンボル", "銘柄コード"}},
	{field: "name", required: true, candidates: []string{"銘柄名", "銘柄"}},
	{field: "market", candidates: []string{"市場名", "市場"}},
	{field: "accountType", candidates: []string{"口座区分", "預り区分", "口座"}},
	{field: "tradeType", required: true, candidates: []string{"取引区分", "売買区分", "取引"}},
	{field: "quantity", required: true, candidates: []string{"数量［株］", "数量[株]", "約定数量", "数量"}},
	{field: "price", candidates: []string{"単価", "約定単価"}},
	{field: "fxRate", candidates: []string{"為替レート", "適用為替レート", "為替"}},
	{field: "fee", candidates: []string{"手数料", "国内手数料"}},
	{field: "tax", candidates: []string{"税金", "税額", "現地源泉税"}},
	{field: "currency", required: true, candidates: []string{"通貨", "現地通貨"}},
	{field: "settleSelector", candidates: []string{"決済通貨", "決済方法"}},
	{field: "settledYen", candidates: []string{"受渡金額［円］", "受渡金額[円]", "受渡金額（円）", "円貨受渡金額"}},
	{field: "settledLocal", candidates: []string{"受渡金額［現地通貨］", "受渡金額[現地通貨]", "現地通貨受渡金額", "外貨受渡金額"}},
}

func (m *foreignMapper) Subtype() models.Subtype { return models.SubtypeForeignEquity }

func (m *foreignMapper) Bind(header []string) error {
	idx, err := bindColumns(header, foreignColumns)
	if err != nil {
		return err
	}
	m.idx = idx
	return nil
}

func (m *foreignMapper) MapRow(row []string) (models.CanonicalTransaction, error) {
	tradeDate, err := utils.ParseDate(m.idx.cell(row, "tradeDate"))
	if err != nil {
		return models.CanonicalTransaction{}, fmt.Errorf("trade date: %w", err)
	}
	settleDate, _ := utils.ParseDate(m.idx.cell(row, "settleDate"))

	tradeType := mapTradeType(m.idx.cell(row, "tradeType"))
	currency := utils.NormalizeCurrencyLabel(m.idx.cell(row, "currency"))
	quantity := parseAmount(m.idx.cell(row, "quantity"))
	price := parseAmount(m.idx.cell(row, "price"))

	settledAmount, settledCurrency := m.settlement(row, currency)

	tx := models.CanonicalTransaction{
		Source:          m.source,
		Subtype:         models.SubtypeForeignEquity,
		TradeDate:       tradeDate,
		SettleDate:      settleDate,
		Symbol:          m.idx.cell(row, "symbol"),
		Name:            m.idx.cell(row, "name"),
		Market:          m.idx.cell(row, "market"),
		AccountType:     m.idx.cell(row, "accountType"),
		TradeType:       tradeType,
		Quantity:        quantity,
		QuantityUnit:    "株",
		Price:           price,
		PriceCurrency:   currency,
		Fee:             parseAmount(m.idx.cell(row, "fee")),
		Tax:             parseAmount(m.idx.cell(row, "tax")),
		Currency:        currency,
		FxRate:          parseAmount(m.idx.cell(row, "fxRate")),
		SettledAmount:   applySettlementSign(tradeType, settledAmount),
		SettledCurrency: settledCurrency,
	}
	if price > 0 && quantity > 0 {
		tx.GrossAmount = price * quantity
		tx.GrossCurrency = currency
	}
	return models.NewCanonicalTransaction(tx)
}

// settlement picks the authoritative settlement column. A selector containing
// 円 means yen settlement; anything else (外貨, a currency label, or an absent
// column) means the local-currency column, falling back to yen when the local
// column is empty.
func (m *foreignMapper) settlement(row []string, localCurrency string) (float64, string) {
	selector := m.idx.cell(row, "settleSelector")
	yenAmount := parseAmount(m.idx.cell(row, "settledYen"))
	localAmount := parseAmount(m.idx.cell(row, "settledLocal"))

	if strings.Contains(selector, "円") {
		return yenAmount, "JPY"
	}
	if localAmount != 0 {
		return localAmount, localCurrency
	}
	return yenAmount, "JPY"
}
