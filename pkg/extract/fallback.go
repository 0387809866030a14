package extract

import (
	"github.com/shopspring/decimal"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/money"
)

// Resolve builds the single line reported when no debt rows were found. A
// non-zero statement total becomes a consolidated line; anything else means
// nothing is owed.
func Resolve(h Header) DebtLine {
	amount := money.Parse(h.Total)
	if h.Total != "" && !amount.IsZero() {
		caseID := h.Dossier
		if caseID == "" {
			caseID = ConsolidatedCase
		}
		return DebtLine{
			Case:           caseID,
			Classification: string(MethodConsolidated),
			Balance:        h.Total,
			Amount:         amount,
			Method:         MethodConsolidated,
		}
	}

	return DebtLine{
		Case:           "-",
		Classification: NoDebtLabel,
		Balance:        ZeroBalance,
		Amount:         decimal.Zero,
		Method:         MethodNoDebt,
	}
}
