package extract

import (
	"context"
	"strings"
)

// Source is everything acquired from one document
type Source struct {
	Filename string
	// Text is the native text, one visual line per line
	Text string
	// Layout is the native text with column positions kept
	Layout string
	// Tables holds the grid tables of every page, each as rows of cells
	Tables [][][]string
	// OCR recognizes the rendered pages. Nil when OCR is unavailable.
	OCR func(ctx context.Context) (string, error)

	ocrText string
	ocrErr  error
	ocrDone bool
}

// OCRText runs OCR once and caches the outcome
func (s *Source) OCRText(ctx context.Context) (string, error) {
	if s.OCR == nil {
		return "", nil
	}
	if !s.ocrDone {
		s.ocrText, s.ocrErr = s.OCR(ctx)
		s.ocrDone = true
	}
	return s.ocrText, s.ocrErr
}

// Strategy is one way of finding debt lines. An empty result lets the next
// strategy run; an error is recorded as a warning and also moves on.
type Strategy interface {
	Method() Method
	Lines(ctx context.Context, src *Source, h Header) ([]DebtLine, error)
}

// DefaultStrategies returns the ranked strategy list: grid tables, quoted
// fields, native lines, layout lines and finally OCR
func DefaultStrategies(minCaseDigits int) []Strategy {
	return []Strategy{
		TableGrid{MinCaseDigits: minCaseDigits},
		CSVFields{MinCaseDigits: minCaseDigits},
		LineScan{Scanner: Scanner{MinCaseDigits: minCaseDigits, Method: MethodLineDetailed}},
		LineScan{Scanner: Scanner{MinCaseDigits: minCaseDigits, Method: MethodLayoutDetailed}, Layout: true},
		OCRScan{MinCaseDigits: minCaseDigits},
	}
}

// TableGrid reads the grid tables
type TableGrid struct {
	MinCaseDigits int
}

func (TableGrid) Method() Method { return MethodTableGrid }

func (t TableGrid) Lines(_ context.Context, src *Source, _ Header) ([]DebtLine, error) {
	return GridLines(src.Tables, t.MinCaseDigits), nil
}

// CSVFields reads quoted field rows from the native text
type CSVFields struct {
	MinCaseDigits int
}

func (CSVFields) Method() Method { return MethodCSVFields }

func (c CSVFields) Lines(_ context.Context, src *Source, h Header) ([]DebtLine, error) {
	return CSVLines(strings.Split(src.Text, "\n"), h.CNPJ, c.MinCaseDigits), nil
}

// LineScan scans the native or layout text line by line
type LineScan struct {
	Scanner Scanner
	Layout  bool
}

func (l LineScan) Method() Method { return l.Scanner.method() }

func (l LineScan) Lines(_ context.Context, src *Source, h Header) ([]DebtLine, error) {
	text := src.Text
	if l.Layout {
		text = src.Layout
	}
	return l.Scanner.Scan(splitLines(text), h.CNPJ), nil
}

// OCRScan scans OCR output. Header fields missing from the native text are
// taken from the OCR text.
type OCRScan struct {
	MinCaseDigits int
}

func (OCRScan) Method() Method { return MethodOCR }

func (o OCRScan) Lines(ctx context.Context, src *Source, h Header) ([]DebtLine, error) {
	if src.OCR == nil {
		return nil, nil
	}
	text, err := src.OCRText(ctx)
	if err != nil {
		return nil, err
	}

	h = mergeHeader(h, ParseHeader(text))
	s := Scanner{MinCaseDigits: o.MinCaseDigits, Method: MethodOCR}
	return s.Scan(splitLines(text), h.CNPJ), nil
}

// mergeHeader fills the fields h lacks from other
func mergeHeader(h, other Header) Header {
	if h.Municipality == UnknownMunicipality {
		h.Municipality = other.Municipality
	}
	if h.CNPJ == "" {
		h.CNPJ = other.CNPJ
	}
	if h.Dossier == "" {
		h.Dossier = other.Dossier
	}
	if h.Total == "" {
		h.Total = other.Total
	}
	return h
}
