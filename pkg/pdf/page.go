package pdf

import (
	"fmt"
	"sort"
	"strings"
)

// objectPage implements Page over an already decoded set of objects. Every
// backend converts its native content into Objects and wraps it here, so text,
// word and table extraction behave the same regardless of the library used.
type objectPage struct {
	pageNumber int
	width      float64
	height     float64
	objects    Objects
}

// NewPage builds a Page from decoded objects. Coordinates are top-left based.
func NewPage(pageNumber int, width, height float64, objects Objects) Page {
	return &objectPage{
		pageNumber: pageNumber,
		width:      width,
		height:     height,
		objects:    objects,
	}
}

// GetPageNumber returns the page number (1-based)
func (p *objectPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *objectPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *objectPage) GetHeight() float64 {
	return p.height
}

// GetObjects returns all objects on the page
func (p *objectPage) GetObjects() Objects {
	return p.objects
}

// ExtractText joins the page words row by row. With WithLayout the words keep
// their horizontal position, which is what the column-aware scans rely on.
func (p *objectPage) ExtractText(opts ...TextExtractionOption) string {
	config := newTextExtractionConfig(opts)

	rows := groupCharsIntoRows(p.objects.Chars, config.YTolerance)
	charWidth := medianCharWidth(p.objects.Chars)

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		words := wordsFromRow(row, config.XTolerance)
		var line string
		if config.Layout {
			line = layoutLine(words, charWidth)
		} else {
			line = plainLine(words)
		}
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

// ExtractWords extracts individual words from the page
func (p *objectPage) ExtractWords(opts ...TextExtractionOption) []Word {
	config := newTextExtractionConfig(opts)

	var words []Word
	for _, row := range groupCharsIntoRows(p.objects.Chars, config.YTolerance) {
		words = append(words, wordsFromRow(row, config.XTolerance)...)
	}
	return words
}

// ExtractTables extracts tables from the page
func (p *objectPage) ExtractTables(opts ...TableExtractionOption) []Table {
	tables := newTableExtractor(p, opts...).ExtractTables()
	for i := range tables {
		tables[i].Page = p.pageNumber
	}
	return tables
}

// pagesDocument is the Document shared by all backends
type pagesDocument struct {
	backend string
	pages   []Page
	closer  func() error
}

// Backend names the library that produced the pages
func (d *pagesDocument) Backend() string {
	return d.backend
}

// GetPages returns all pages in the document
func (d *pagesDocument) GetPages() []Page {
	return d.pages
}

// GetPage returns a specific page by index (0-based)
func (d *pagesDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// PageCount returns the total number of pages
func (d *pagesDocument) PageCount() int {
	return len(d.pages)
}

// Close releases resources associated with the document
func (d *pagesDocument) Close() error {
	d.pages = nil
	if d.closer != nil {
		return d.closer()
	}
	return nil
}

// groupCharsIntoRows sorts characters top to bottom, left to right and splits
// them wherever the vertical distance exceeds yTolerance
func groupCharsIntoRows(chars []CharObject, yTolerance float64) [][]CharObject {
	if len(chars) == 0 {
		return nil
	}

	sorted := make([]CharObject, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool {
		if abs(sorted[i].Y0-sorted[j].Y0) > yTolerance {
			return sorted[i].Y0 < sorted[j].Y0
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var rows [][]CharObject
	current := []CharObject{sorted[0]}
	currentY := sorted[0].Y0

	for _, char := range sorted[1:] {
		if abs(char.Y0-currentY) > yTolerance {
			rows = append(rows, current)
			current = []CharObject{char}
			currentY = char.Y0
			continue
		}
		current = append(current, char)
	}
	rows = append(rows, current)

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X0 < row[j].X0
		})
	}
	return rows
}

// wordsFromRow splits one row of characters into words
func wordsFromRow(row []CharObject, xTolerance float64) []Word {
	if len(row) == 0 {
		return nil
	}

	var words []Word
	current := []CharObject{row[0]}

	for i := 1; i < len(row); i++ {
		char := row[i]
		gap := char.X0 - row[i-1].X1
		if gap > xTolerance || (gap > 1.0 && gap > char.Width*0.3) {
			words = append(words, createWord(current))
			current = []CharObject{char}
			continue
		}
		current = append(current, char)
	}
	words = append(words, createWord(current))

	return words
}

// createWord creates a Word from a group of characters
func createWord(chars []CharObject) Word {
	var text strings.Builder
	minX, minY := chars[0].X0, chars[0].Y0
	maxX, maxY := chars[0].X1, chars[0].Y1

	for _, char := range chars {
		text.WriteString(char.Text)
		minX = min(minX, char.X0)
		minY = min(minY, char.Y0)
		maxX = max(maxX, char.X1)
		maxY = max(maxY, char.Y1)
	}

	return Word{
		Text:       text.String(),
		X0:         minX,
		Y0:         minY,
		X1:         maxX,
		Y1:         maxY,
		Characters: chars,
	}
}

func plainLine(words []Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// layoutLine places every word at the column its x position maps to
func layoutLine(words []Word, charWidth float64) string {
	var b strings.Builder
	col := 0
	for i, w := range words {
		target := int(w.X0/charWidth + 0.5)
		pad := target - col
		if i > 0 && pad < 1 {
			pad = 1
		}
		if pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
		}
		b.WriteString(w.Text)
		col += len([]rune(w.Text))
	}
	return strings.TrimLeft(b.String(), " ")
}

func medianCharWidth(chars []CharObject) float64 {
	widths := make([]float64, 0, len(chars))
	for _, c := range chars {
		if c.Width > 0 {
			widths = append(widths, c.Width)
		}
	}
	if len(widths) == 0 {
		return 5.0
	}
	sort.Float64s(widths)
	return widths[len(widths)/2]
}
