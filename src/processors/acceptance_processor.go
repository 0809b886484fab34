package processors

import (
	"github.com/username/kabufolio/src/ledger"
	"github.com/username/kabufolio/src/models"
	"github.com/username/kabufolio/src/utils"
)

// CashflowSummary is an approximate base-currency cashflow reconstruction of
// an imported batch. Entries in a foreign settlement currency with no FX rate
// cannot be converted; they are excluded and counted instead.
type CashflowSummary struct {
	Currency       string  `json:"currency"`
	Inflow         float64 `json:"inflow"`
	Outflow        float64 `json:"outflow"` // magnitude of outgoing cash
	Net            float64 `json:"net"`
	UnknownFxCount int     `json:"unknown_fx_count"`
}

// AcceptanceReport is the advisory post-import reconciliation. It never gates
// an import; it exists so sign-convention drift and unexpected dedup ratios
// are visible right after the batch lands.
type AcceptanceReport struct {
	SignMismatches   int                 `json:"sign_mismatches"`
	SignMismatchRate float64             `json:"sign_mismatch_rate"`
	Counts           ledger.UpsertCounts `json:"counts"`
	Cashflow         CashflowSummary     `json:"cashflow"`
}

// AcceptanceChecker builds acceptance reports against a base currency.
type AcceptanceChecker struct {
	baseCurrency string
}

func NewAcceptanceChecker(baseCurrency string) *AcceptanceChecker {
	return &AcceptanceChecker{baseCurrency: baseCurrency}
}

// Check reconciles a batch of canonical transactions after import.
func (c *AcceptanceChecker) Check(txs []models.CanonicalTransaction, counts ledger.UpsertCounts) AcceptanceReport {
	report := AcceptanceReport{
		Counts:   counts,
		Cashflow: CashflowSummary{Currency: c.baseCurrency},
	}

	for _, tx := range txs {
		if expected := models.ExpectedSettlementSign(tx.TradeType); expected != 0 {
			if tx.SettledAmount*float64(expected) < 0 {
				report.SignMismatches++
			}
		}

		amount, ok := c.toBaseCurrency(tx)
		if !ok {
			report.Cashflow.UnknownFxCount++
			continue
		}
		if amount >= 0 {
			report.Cashflow.Inflow += amount
		} else {
			report.Cashflow.Outflow += -amount
		}
	}

	if len(txs) > 0 {
		report.SignMismatchRate = utils.RoundFloat(float64(report.SignMismatches)/float64(len(txs)), 4)
	}
	report.Cashflow.Inflow = utils.RoundFloat(report.Cashflow.Inflow, 2)
	report.Cashflow.Outflow = utils.RoundFloat(report.Cashflow.Outflow, 2)
	report.Cashflow.Net = utils.RoundFloat(report.Cashflow.Inflow-report.Cashflow.Outflow, 2)
	return report
}

// toBaseCurrency converts a settled amount using the FX rate captured at
// trade time (base units per settlement unit). No rate means no conversion.
func (c *AcceptanceChecker) toBaseCurrency(tx models.CanonicalTransaction) (float64, bool) {
	if tx.SettledCurrency == c.baseCurrency {
		return tx.SettledAmount, true
	}
	if tx.FxRate > 0 {
		return tx.SettledAmount * tx.FxRate, true
	}
	return 0, false
}
