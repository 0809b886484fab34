package parsers

import (
	"fmt"
	"math"

	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/utils"
)

// fundMapper handles the fund-unit layout: fund name, unit count, unit price
// and a settlement amount that is reduced by any points applied to the order.
type fundMapper struct {
	source string
	idx    columnIndex
}

var fundColumns = []column{
	{field: "tradeDate", required: true, candidates: []string{"約定日", "約定年月日"}},
	{field: "settleDate", candidates: []string{"受渡日", "受渡年月日"}},
	{field: "name", required: true, candidates: []string{"ファンド名", "ファンド", "銘柄名"}},
	{field: "accountType", candidates: []string{"口座区分", "預り区分", "口座"}},
	{field: "tradeType", required: true, candidates: []string{"取引区分", "取引"}},
	{field: "quantity", required: true, candidates: []string{"数量［口］", "数量[口]", "口数", "数量"}},
	{field: "price", candidates: []string{"単価", "基準価額"}},
	{field: "buyMethod", candidates: []string{"買付方法", "購入方法"}},
	{field: "points", candidates: []string{"ポイント利用", "利用ポイント", "ポイント"}},
	{field: "settledAmount", required: true, candidates: []string{"受渡金額", "受渡代金", "金額"}},
}

func (m *fundMapper) Subtype() models.Subtype { return models.SubtypeFundUnit }

func (m *fundMapper) Bind(header []string) error {
	idx, err := bindColumns(header, fundColumns)
	if err != nil {
		return err
	}
	m.idx = idx
	return nil
}

func (m *fundMapper) MapRow(row []string) (models.CanonicalTransaction, error) {
	tradeDate, err := utils.ParseDate(m.idx.cell(row, "tradeDate"))
	if err != nil {
		return models.CanonicalTransaction{}, fmt.Errorf("trade date: %w", err)
	}
	settleDate, _ := utils.ParseDate(m.idx.cell(row, "settleDate"))

	tradeType := mapTradeType(m.idx.cell(row, "tradeType"))

	// Points cover part of the order, so the cash that actually settles is
	// the stated amount minus the points applied.
	amount := math.Abs(parseAmount(m.idx.cell(row, "settledAmount")))
	points := math.Abs(parseAmount(m.idx.cell(row, "points")))
	settled := amount - points
	if settled < 0 {
		settled = 0
	}

	accountType := m.idx.cell(row, "accountType")
	if method := m.idx.cell(row, "buyMethod"); method != "" && accountType == "" {
		accountType = method
	}

	tx := models.CanonicalTransaction{
		Source:          m.source,
		Subtype:         models.SubtypeFundUnit,
		TradeDate:       tradeDate,
		SettleDate:      settleDate,
		Name:            m.idx.cell(row, "name"),
		AccountType:     accountType,
		TradeType:       tradeType,
		Quantity:        parseAmount(m.idx.cell(row, "quantity")),
		QuantityUnit:    "口",
		Price:           parseAmount(m.idx.cell(row, "price")),
		PriceCurrency:   "JPY",
		Currency:        "JPY",
		SettledAmount:   applySettlementSign(tradeType, settled),
		SettledCurrency: "JPY",
	}
	return models.NewCanonicalTransaction(tx)
}
