package extract

import (
	"regexp"
	"strings"
)

var (
	municipalityPattern = regexp.MustCompile(`(?i)MUNIC[IÍ]PIO\s+DE\s+([^\n]*)`)
	cnpjPattern         = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)
	dossierPattern      = regexp.MustCompile(`(?i)N[º°o]\.?\s*(?:do\s+)?Processo\s*/\s*Dossi[êe]\s*:?\s*([\d./-]+)`)
	totalPattern        = regexp.MustCompile(`(?i)SALDO\s+DEVEDOR\s+TOTAL\s*:?\s*(?:R\$\s*)?([\d.,]+)`)
)

// Header holds the document-level fields
type Header struct {
	Municipality string
	CNPJ         string
	// Dossier is the "Nº Processo/Dossiê" reference, empty when absent
	Dossier string
	// Total is the "SALDO DEVEDOR TOTAL" value as printed, empty when absent
	Total string
}

// ParseHeader pulls the header fields out of the full document text. Missing
// fields degrade to sentinels; it never fails.
func ParseHeader(text string) Header {
	h := Header{Municipality: UnknownMunicipality}

	if m := municipalityPattern.FindStringSubmatch(text); m != nil {
		if name := strings.ToUpper(strings.TrimSpace(m[1])); name != "" {
			h.Municipality = name
		}
	}

	if locs := cnpjMatches(text); len(locs) > 0 {
		h.CNPJ = text[locs[0][0]:locs[0][1]]
	}

	if m := dossierPattern.FindStringSubmatch(text); m != nil {
		h.Dossier = strings.TrimRight(m[1], "./-")
	}

	if m := totalPattern.FindStringSubmatch(text); m != nil {
		h.Total = strings.TrimRight(m[1], ".,")
	}

	return h
}

// cnpjMatches returns the CNPJs standing on their own. A match glued to a
// preceding digit or dot is the tail of a dotted process number.
func cnpjMatches(s string) [][]int {
	var out [][]int
	for _, loc := range cnpjPattern.FindAllStringIndex(s, -1) {
		if loc[0] > 0 && (isDigit(s[loc[0]-1]) || s[loc[0]-1] == '.') {
			continue
		}
		if loc[1] < len(s) && isDigit(s[loc[1]]) {
			continue
		}
		out = append(out, loc)
	}
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
