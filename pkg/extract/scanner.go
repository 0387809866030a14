package extract

import (
	"regexp"
	"strings"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/money"
)

var (
	processPattern = regexp.MustCompile(`\b\d{5}\.?\d{6}/\d{4}-\d{2}\b|\b\d{5}\.\d{3}\.\d{3}/\d{4}-\d{2}\b`)
	digitRun       = regexp.MustCompile(`\d+`)
	systemPattern  = regexp.MustCompile(`\b(SIEF|SIDA|PAEX|PAES|PERT|PARCSN|PARCMEI|SISPAR|DEBCAD|REFIS|SIMPLES)\b`)
)

// Scanner finds debt rows in plain text lines. A line is a row when it
// carries the taxpayer CNPJ and a money value. A row whose value wrapped onto
// the following line borrows it from there.
type Scanner struct {
	// MinCaseDigits is the shortest bare digit run taken as a case number
	MinCaseDigits int
	// Method tags the lines found
	Method Method
}

// ScanLines runs a default line-detailed Scanner
func ScanLines(lines []string, cnpj string) []DebtLine {
	return Scanner{MinCaseDigits: DefaultMinCaseDigits, Method: MethodLineDetailed}.Scan(lines, cnpj)
}

// Scan returns the rows found in lines, in line order. Lines are trimmed and
// blank ones ignored. With an empty cnpj nothing qualifies.
func (s Scanner) Scan(lines []string, cnpj string) []DebtLine {
	if cnpj == "" {
		return nil
	}
	lines = cleanLines(lines)

	var out []DebtLine
	for i, line := range lines {
		if !strings.Contains(line, cnpj) {
			continue
		}

		if totalPattern.MatchString(line) {
			continue
		}

		rest := stripCNPJ(strings.ReplaceAll(line, cnpj, " "))
		method := s.method()

		balance, ok := money.Last(rest)
		caseID := s.caseID(rest)
		if !ok {
			// wrapped value: only trust it for a line that names a case
			if caseID == UnidentifiedCase || i+1 >= len(lines) || strings.Contains(lines[i+1], cnpj) {
				continue
			}
			if balance, ok = money.Last(lines[i+1]); !ok {
				continue
			}
			method = MethodLineBreakRecovered
		}

		out = append(out, DebtLine{
			Case:           caseID,
			Classification: s.classify(line),
			Balance:        balance,
			Amount:         money.Parse(balance),
			Method:         method,
			Degraded:       s.Method == MethodOCR,
		})
	}
	return out
}

func (s Scanner) method() Method {
	if s.Method == "" {
		return MethodLineDetailed
	}
	return s.Method
}

// caseID picks a structured process number if there is one, else the first
// long enough digit run left once money values are removed
func (s Scanner) caseID(text string) string {
	if m := processPattern.FindString(text); m != "" {
		return m
	}

	minDigits := s.MinCaseDigits
	if minDigits <= 0 {
		minDigits = DefaultMinCaseDigits
	}

	text = money.Pattern.ReplaceAllString(text, " ")
	for _, run := range digitRun.FindAllString(text, -1) {
		if len(run) >= minDigits {
			return run
		}
	}
	return UnidentifiedCase
}

func (s Scanner) classify(line string) string {
	if m := systemPattern.FindString(strings.ToUpper(line)); m != "" {
		return m
	}
	return string(s.method())
}

// stripCNPJ blanks out every CNPJ so its digits never become a case number
func stripCNPJ(s string) string {
	locs := cnpjMatches(s)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		b.WriteString(" ")
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func cleanLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// splitLines breaks text on newlines and form feeds
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\f", "\n")
	return cleanLines(strings.Split(text, "\n"))
}
