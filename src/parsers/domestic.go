package parsers

import (
	"fmt"

	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/utils"
)

// domesticMapper handles the domestic-equity layout. All monetary columns are
// denominated in yen.
type domesticMapper struct {
	source string
	idx    columnIndex
}

var domesticColumns = []column{
	{field: "tradeDate", required: true, candidates: []string{"約定日", "約定年月日"}},
	{field: "settleDate", candidates: []string{"受渡日", "受渡年月日"}},
	{field: "symbol", candidates: []string{"銘柄コード", "証券コード", "コード"}},
	{field: "name", required: true, candidates: []string{"銘柄名", "銘柄"}},
	{field: "market", candidates: []string{"市場名", "市場"}},
	{field: "accountType", candidates: []string{"口座区分", "預り区分", "口座"}},
	{field: "tradeType", required: true, candidates: []string{"取引区分", "売買区分", "取引"}},
	{field: "quantity", required: true, candidates: []string{"数量［株］", "数量[株]", "数量（株）", "約定数量", "数量"}},
	{field: "price", candidates: []string{"単価［円］", "単価[円]", "約定単価", "単価"}},
	{field: "fee", candidates: []string{"手数料［円］", "手数料[円]", "手数料"}},
	{field: "tax", candidates: []string{"税金等［円］", "税金等[円]", "税額", "税金"}},
	{field: "otherCosts", candidates: []string{"その他費用［円］", "その他費用[円]", "諸費用", "その他費用"}},
	{field: "settledAmount", required: true, candidates: []string{"受渡金額［円］", "受渡金額[円]", "受渡代金", "受渡金額"}},
}

func (m *domesticMapper) Subtype() models.Subtype { return models.SubtypeDomesticEquity }

func (m *domesticMapper) Bind(header []string) error {
	idx, err := bindColumns(header, domesticColumns)
	if err != nil {
		return err
	}
	m.idx = idx
	return nil
}

func (m *domesticMapper) MapRow(row []string) (models.CanonicalTransaction, error) {
	tradeDate, err := utils.ParseDate(m.idx.cell(row, "tradeDate"))
	if err != nil {
		return models.CanonicalTransaction{}, fmt.Errorf("trade date: %w", err)
	}
	settleDate, _ := utils.ParseDate(m.idx.cell(row, "settleDate"))

	tradeType := mapTradeType(m.idx.cell(row, "tradeType"))
	quantity := parseAmount(m.idx.cell(row, "quantity"))
	price := parseAmount(m.idx.cell(row, "price"))

	tx := models.CanonicalTransaction{
		Source:          m.source,
		Subtype:         models.SubtypeDomesticEquity,
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
		PriceCurrency:   "JPY",
		Fee:             parseAmount(m.idx.cell(row, "fee")),
		Tax:             parseAmount(m.idx.cell(row, "tax")),
		OtherCosts:      parseAmount(m.idx.cell(row, "otherCosts")),
		Currency:        "JPY",
		SettledAmount:   applySettlementSign(tradeType, parseAmount(m.idx.cell(row, "settledAmount"))),
		SettledCurrency: "JPY",
	}
	if price > 0 && quantity > 0 {
		tx.GrossAmount = price * quantity
		tx.GrossCurrency = "JPY"
	}
	return models.NewCanonicalTransaction(tx)
}
