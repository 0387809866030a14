package report

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes rows with the spreadsheet columns. Amounts use a decimal
// point so the output stays machine readable.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Filename,
			r.Municipality,
			r.CNPJ,
			r.Case,
			r.Classification,
			r.Balance,
			r.Amount.StringFixed(2),
			r.MethodLabel(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
