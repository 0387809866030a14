package extract

import (
	"context"
	"strings"
	"testing"
)

const testCNPJ = "12.345.678/0001-90"

func TestScanLinesPicksLastBalance(t *testing.T) {
	lines := []string{"12.345.678/0001-90 10880.123456/2020-11 SIEF 1.234,56 98.765,43"}

	got := ScanLines(lines, testCNPJ)
	if len(got) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(got))
	}

	line := got[0]
	if line.Balance != "98.765,43" {
		t.Errorf("Expected balance 98.765,43, got %s", line.Balance)
	}
	if line.Amount.String() != "98765.43" {
		t.Errorf("Expected amount 98765.43, got %s", line.Amount)
	}
	if line.Case != "10880.123456/2020-11" {
		t.Errorf("Expected structured case, got %s", line.Case)
	}
	if line.Classification != "SIEF" {
		t.Errorf("Expected SIEF, got %s", line.Classification)
	}
	if line.Method != MethodLineDetailed {
		t.Errorf("Expected %s, got %s", MethodLineDetailed, line.Method)
	}
}

func TestScanLinesCaseSelection(t *testing.T) {
	testCases := []struct {
		name string
		line string
		min  int
		want string
	}{
		{"structured", "12.345.678/0001-90 PARCSN 10880.123456/2020-11 10,00", 7, "10880.123456/2020-11"},
		{"structured dotted", "12.345.678/0001-90 10880.123.456/2020-11 10,00", 7, "10880.123.456/2020-11"},
		{"digit run", "12.345.678/0001-90 PARCSN 123456789 1.500,00", 7, "123456789"},
		{"short run", "12.345.678/0001-90 SIDA 123456 45,00", 7, UnidentifiedCase},
		{"lower threshold", "12.345.678/0001-90 SIDA 123456 45,00", 6, "123456"},
		{"money is not a case", "12.345.678/0001-90 SIEF 1234567,89", 7, UnidentifiedCase},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Scanner{MinCaseDigits: tc.min}.Scan([]string{tc.line}, testCNPJ)
			if len(got) != 1 {
				t.Fatalf("Expected 1 line, got %d", len(got))
			}
			if got[0].Case != tc.want {
				t.Errorf("Expected case %q, got %q", tc.want, got[0].Case)
			}
		})
	}
}

func TestScanLinesNeverUsesCNPJAsCase(t *testing.T) {
	lines := []string{
		"12.345.678/0001-90 1.000,00",
		"SIEF 12.345.678/0001-90 99999999 2,00",
		"12.345.678/0001-90 PERT 98.765.432/0001-10 3,00",
	}
	digits := strings.NewReplacer(".", "", "/", "", "-", "").Replace(testCNPJ)

	for _, l := range ScanLines(lines, testCNPJ) {
		if strings.Contains(l.Case, testCNPJ) || strings.Contains(digits, l.Case) || strings.Contains(l.Case, "0001") {
			t.Errorf("Case %q overlaps the CNPJ", l.Case)
		}
	}
}

func TestScanLinesLineBreakRecovery(t *testing.T) {
	lines := []string{
		"  12.345.678/0001-90 10880.123456/2020-11 SIEF  ",
		"",
		"1.234,56",
	}

	got := ScanLines(lines, testCNPJ)
	if len(got) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(got))
	}
	if got[0].Method != MethodLineBreakRecovered || got[0].Balance != "1.234,56" {
		t.Errorf("Unexpected recovered line: %+v", got[0])
	}
}

func TestScanLinesSkipsLinesWithoutValue(t *testing.T) {
	lines := []string{
		"CNPJ: 12.345.678/0001-90",
		"SALDO DEVEDOR TOTAL 5.000,00",
		"12.345.678/0001-90 10880.123456/2020-11",
		"12.345.678/0001-90 SIDA 7,00",
	}

	got := ScanLines(lines, testCNPJ)
	if len(got) != 1 {
		t.Fatalf("Expected 1 line, got %d: %+v", len(got), got)
	}
	if got[0].Balance != "7,00" || got[0].Classification != "SIDA" {
		t.Errorf("Unexpected line: %+v", got[0])
	}
}

func TestScanLinesEmptyCNPJ(t *testing.T) {
	if got := ScanLines([]string{"10880.123456/2020-11 1,00"}, ""); len(got) != 0 {
		t.Errorf("Expected no lines without a CNPJ, got %d", len(got))
	}
}

func TestCSVLines(t *testing.T) {
	lines := []string{
		`"12.345.678/0001-90","10880.123456/2020-11","SIEF","1.234,56"`,
		`"12.345.678/0001-90","sem saldo"`,
		`"98.765.432/0001-10","10880.000000/2020-11","SIDA","5,00"`,
	}

	got := CSVLines(lines, testCNPJ, DefaultMinCaseDigits)
	if len(got) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(got))
	}
	want := DebtLine{Case: "10880.123456/2020-11", Classification: "SIEF", Balance: "1.234,56", Method: MethodCSVFields}
	if got[0].Case != want.Case || got[0].Classification != want.Classification ||
		got[0].Balance != want.Balance || got[0].Method != want.Method {
		t.Errorf("Expected %+v, got %+v", want, got[0])
	}
}

func TestScanLinesDottedProcessNumber(t *testing.T) {
	got := ScanLines([]string{"12.345.678/0001-90 10880.123.456/2020-11 SIEF 1.234,56"}, testCNPJ)
	if len(got) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(got))
	}
	if got[0].Case != "10880.123.456/2020-11" || got[0].Balance != "1.234,56" {
		t.Errorf("Unexpected line: %+v", got[0])
	}
}

func TestScanLinesSkipsTotalLine(t *testing.T) {
	lines := []string{"CNPJ: 12.345.678/0001-90   SALDO DEVEDOR TOTAL 0,00"}

	if got := ScanLines(lines, testCNPJ); len(got) != 0 {
		t.Errorf("Expected the total line to be skipped, got %+v", got)
	}

	rec := New(WithNaming(NoNaming{}), WithLogger(quietLogger())).Run(context.Background(), &Source{Text: lines[0]})
	if len(rec.Lines) != 1 || rec.Lines[0].Method != MethodNoDebt {
		t.Errorf("Expected a single no-debt line, got %+v", rec.Lines)
	}
}
