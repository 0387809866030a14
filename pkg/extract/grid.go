package extract

import (
	"strings"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/money"
)

// tableKeywords must appear in a table's first row for it to be read as the
// debt table
var tableKeywords = []string{"processo", "modalidade", "saldo", "cnpj", "sistema"}

// columnMap holds the column index of each field, -1 when absent
type columnMap struct {
	caseCol, classCol, balanceCol, cnpjCol int
}

// AcceptTable reports whether the header row names at least one debt column
func AcceptTable(table [][]string) bool {
	if len(table) == 0 {
		return false
	}
	header := fold(strings.Join(table[0], " "))
	for _, kw := range tableKeywords {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

// GridLines reads debt lines from every accepted table. The first row of a
// table is its header; each later row with a money value in the balance
// column becomes a line. Tables without a recognized header are skipped.
func GridLines(tables [][][]string, minCaseDigits int) []DebtLine {
	var out []DebtLine
	for _, table := range tables {
		if !AcceptTable(table) {
			continue
		}
		cols := mapColumns(table[0])
		for _, row := range table[1:] {
			if isTotalRow(row) {
				continue
			}
			if line, ok := gridRow(row, cols, minCaseDigits); ok {
				out = append(out, line)
			}
		}
	}
	return out
}

func mapColumns(header []string) columnMap {
	folded := make([]string, len(header))
	for i, h := range header {
		folded[i] = fold(h)
	}

	return columnMap{
		caseCol:    findColumn(folded, "processo", "dossie", "debcad"),
		classCol:   findColumn(folded, "modalidade", "sistema", "receita"),
		balanceCol: findColumn(folded, "saldo", "valor"),
		cnpjCol:    findColumn(folded, "cnpj"),
	}
}

// findColumn returns the first header cell containing a key, trying keys in
// priority order
func findColumn(header []string, keys ...string) int {
	for _, key := range keys {
		for i, h := range header {
			if strings.Contains(h, key) {
				return i
			}
		}
	}
	return -1
}

// isTotalRow reports whether row is a summary footer, such as "TOTAL" or
// "SALDO DEVEDOR TOTAL", rather than a debt
func isTotalRow(row []string) bool {
	for _, c := range row {
		f := fold(strings.TrimSpace(c))
		if strings.HasPrefix(f, "total") || strings.Contains(f, "saldo devedor total") {
			return true
		}
	}
	return false
}

func gridRow(row []string, cols columnMap, minCaseDigits int) (DebtLine, bool) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	balanceText := cell(cols.balanceCol)
	if cols.balanceCol < 0 {
		balanceText = strings.Join(row, " ")
	}
	balance, ok := money.Last(stripCNPJ(balanceText))
	if !ok {
		return DebtLine{}, false
	}

	caseID := UnidentifiedCase
	if c := stripCNPJ(cell(cols.caseCol)); strings.TrimSpace(c) != "" {
		caseID = Scanner{MinCaseDigits: minCaseDigits}.caseID(c)
		if caseID == UnidentifiedCase {
			caseID = strings.TrimSpace(c)
		}
	} else {
		var rest []string
		for i, c := range row {
			if i != cols.balanceCol && i != cols.cnpjCol {
				rest = append(rest, c)
			}
		}
		caseID = Scanner{MinCaseDigits: minCaseDigits}.caseID(stripCNPJ(strings.Join(rest, " ")))
	}

	class := cell(cols.classCol)
	if class == "" {
		if m := systemPattern.FindString(strings.ToUpper(strings.Join(row, " "))); m != "" {
			class = m
		} else {
			class = string(MethodTableGrid)
		}
	}

	return DebtLine{
		Case:           caseID,
		Classification: class,
		Balance:        balance,
		Amount:         money.Parse(balance),
		Method:         MethodTableGrid,
	}, true
}
