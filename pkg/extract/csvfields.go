package extract

import (
	"encoding/csv"
	"regexp"
	"strings"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/money"
)

var quotedField = regexp.MustCompile(`"[^"]*"`)

// CSVLines reads rows printed as quoted, comma separated fields, as some RFB
// exports render their tables. A row qualifies like a scanned line: one field
// holds the CNPJ and some field holds money.
func CSVLines(lines []string, cnpj string, minCaseDigits int) []DebtLine {
	if cnpj == "" {
		return nil
	}

	var out []DebtLine
	for _, line := range cleanLines(lines) {
		if len(quotedField.FindAllString(line, -1)) < 3 || !strings.Contains(line, cnpj) || totalPattern.MatchString(line) {
			continue
		}

		r := csv.NewReader(strings.NewReader(line))
		r.LazyQuotes = true
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		fields, err := r.Read()
		if err != nil {
			continue
		}

		balanceIdx, balance := -1, ""
		for i, f := range fields {
			if m, ok := money.Last(stripCNPJ(f)); ok {
				balanceIdx, balance = i, m
			}
		}
		if balanceIdx < 0 {
			continue
		}

		var rest []string
		for i, f := range fields {
			if i != balanceIdx {
				rest = append(rest, stripCNPJ(f))
			}
		}
		s := Scanner{MinCaseDigits: minCaseDigits, Method: MethodCSVFields}

		out = append(out, DebtLine{
			Case:           s.caseID(strings.Join(rest, " ")),
			Classification: s.classify(line),
			Balance:        balance,
			Amount:         money.Parse(balance),
			Method:         MethodCSVFields,
		})
	}
	return out
}
