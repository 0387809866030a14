// Package report flattens extracted records into rows and writes them out as
// a spreadsheet, CSV or a zip of letters.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/extract"
)

// Columns is the header shared by the spreadsheet and CSV outputs
var Columns = []string{
	"Arquivo",
	"Município",
	"CNPJ",
	"Processo",
	"Classificação",
	"Saldo (texto)",
	"Saldo (R$)",
	"Método",
}

// Row is one debt line with its document header fields
type Row struct {
	Filename       string
	Municipality   string
	CNPJ           string
	Case           string
	Classification string
	Balance        string
	Amount         decimal.Decimal
	Method         extract.Method
	Degraded       bool
}

// MethodLabel is the method tag, flagged when the line came from low
// confidence OCR
func (r Row) MethodLabel() string {
	if r.Degraded {
		return string(r.Method) + " (baixa confiança)"
	}
	return string(r.Method)
}

// Flatten emits one row per debt line, in record then line order
func Flatten(records []extract.Record) []Row {
	var rows []Row
	for _, rec := range records {
		for _, l := range rec.Lines {
			rows = append(rows, Row{
				Filename:       rec.Filename,
				Municipality:   rec.Municipality,
				CNPJ:           rec.CNPJ,
				Case:           l.Case,
				Classification: l.Classification,
				Balance:        l.Balance,
				Amount:         l.Amount,
				Method:         l.Method,
				Degraded:       l.Degraded,
			})
		}
	}
	return rows
}

// Total sums the amounts of rows
func Total(rows []Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}
