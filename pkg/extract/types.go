// Package extract turns the text and tables of one RFB "Saldo Devedor"
// statement into a Record of debt lines.
package extract

import (
	"github.com/shopspring/decimal"
)

// Method tags how a DebtLine was found
type Method string

const (
	MethodLineDetailed       Method = "line-detailed"
	MethodLineBreakRecovered Method = "line-break-recovered"
	MethodTableGrid          Method = "table-grid"
	MethodCSVFields          Method = "csv-fields"
	MethodLayoutDetailed     Method = "layout-detailed"
	MethodOCR                Method = "ocr"
	MethodConsolidated       Method = "consolidated"
	MethodNoDebt             Method = "no-debt"
)

// Sentinel values used when a field cannot be found
const (
	UnknownMunicipality = "DESCONHECIDO"
	UnidentifiedCase    = "NÃO IDENTIFICADO"
	ConsolidatedCase    = "CONSOLIDADO"
	ZeroBalance         = "0,00"
	NoDebtLabel         = "NADA CONSTA"
)

// DefaultMinCaseDigits is the shortest bare digit run accepted as a case number
const DefaultMinCaseDigits = 7

// DebtLine is one row of debt data
type DebtLine struct {
	Case           string
	Classification string
	// Balance is the amount as printed, e.g. "1.234,56"
	Balance  string
	Amount   decimal.Decimal
	Method   Method
	Degraded bool
}

// Record is the result of extracting one document. A Record always has at
// least one line: either genuine debt lines or a single consolidated/no-debt
// sentinel line.
type Record struct {
	Filename     string
	Municipality string
	CNPJ         string
	Lines        []DebtLine
	Warnings     []string
}

// Sentinel reports whether the record only carries a fallback line
func (r Record) Sentinel() bool {
	if len(r.Lines) != 1 {
		return false
	}
	m := r.Lines[0].Method
	return m == MethodConsolidated || m == MethodNoDebt
}

// Total sums the normalized amounts of all lines
func (r Record) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.Lines {
		total = total.Add(l.Amount)
	}
	return total
}
