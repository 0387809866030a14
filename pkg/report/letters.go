package report

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/extract"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/money"
)

// DefaultAddressee is used when the operator leaves the addressee blank
const DefaultAddressee = "A/C do(a) Gestor(a) Municipal"

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// LongDate renders t as "19 de outubro de 2026"
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

// Letter is the input of one ofício
type Letter struct {
	Record    extract.Record
	Addressee string
	Date      time.Time
}

// WriteLetter renders one ofício addressed to the record's municipality with a
// table of its debt lines
func WriteLetter(w io.Writer, l Letter) error {
	addressee := strings.TrimSpace(l.Addressee)
	if addressee == "" {
		addressee = DefaultAddressee
	}
	rec := l.Record

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle("Ofício "+rec.Municipality, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(LongDate(l.Date)), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("OFÍCIO"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr("Ao Município de "+rec.Municipality), "", 1, "L", false, 0, "")
	if rec.CNPJ != "" {
		pdf.CellFormat(0, 6, "CNPJ "+rec.CNPJ, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, tr(addressee), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	if rec.Sentinel() && rec.Lines[0].Method == extract.MethodNoDebt {
		pdf.MultiCell(0, 6, tr("Informamos que, conforme relatório de situação fiscal emitido pela "+
			"Receita Federal do Brasil, não constam saldos devedores em nome deste Município."), "", "J", false)
	} else {
		pdf.MultiCell(0, 6, tr("Informamos que, conforme relatório de situação fiscal emitido pela "+
			"Receita Federal do Brasil, constam os seguintes saldos devedores em nome deste Município:"), "", "J", false)
		pdf.Ln(4)
		letterTable(pdf, tr, rec.Lines)
	}

	pdf.Ln(10)
	pdf.MultiCell(0, 6, tr("Solicitamos a regularização dos débitos ou a apresentação de justificativa "+
		"no prazo de 30 (trinta) dias."), "", "J", false)
	pdf.Ln(14)
	pdf.CellFormat(0, 6, "Atenciosamente,", "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to compose letter: %w", err)
	}
	return pdf.Output(w)
}

func letterTable(pdf *fpdf.Fpdf, tr func(string) string, lines []extract.DebtLine) {
	widths := []float64{70, 55, 45}
	headers := []string{"Processo", "Classificação", "Saldo (R$)"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(217, 225, 242)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	total := extract.Record{Lines: lines}.Total()
	for _, l := range lines {
		pdf.CellFormat(widths[0], 6, tr(l.Case), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, tr(l.Classification), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, l.Balance, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1], 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[2], 7, money.Format(total), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// LetterName is the zip entry name of the n-th letter
func LetterName(n int, rec extract.Record) string {
	name := strings.Trim(unsafeName.ReplaceAllString(foldASCII(rec.Municipality), "_"), "_")
	if name == "" {
		name = "documento"
	}
	return fmt.Sprintf("%02d_oficio_%s.pdf", n, name)
}

// WriteLettersZip writes one letter per record into a zip archive
func WriteLettersZip(w io.Writer, records []extract.Record, addressee string, date time.Time) error {
	zw := zip.NewWriter(w)
	for i, rec := range records {
		f, err := zw.Create(LetterName(i+1, rec))
		if err != nil {
			return fmt.Errorf("failed to add letter for %s: %w", rec.Filename, err)
		}
		if err := WriteLetter(f, Letter{Record: rec, Addressee: addressee, Date: date}); err != nil {
			return fmt.Errorf("failed to write letter for %s: %w", rec.Filename, err)
		}
	}
	return zw.Close()
}

func foldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
