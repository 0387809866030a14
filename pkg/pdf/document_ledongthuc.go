package pdf

import (
	"bytes"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"
)

const backendLedongthuc = "ledongthuc"

// OpenWithLedongthuc parses an in-memory PDF using the ledongthuc/pdf library.
// It gives the most accurate glyph positions and also reports the rectangles
// that RFB statements use to draw their table grid.
func OpenWithLedongthuc(data []byte) (Document, error) {
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}

	pageCount := r.NumPage()
	pages := make([]Page, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page, err := newLedongthucPage(r, i)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		pages = append(pages, page)
	}

	return &pagesDocument{backend: backendLedongthuc, pages: pages}, nil
}

// newLedongthucPage decodes one page. The library panics on some malformed
// content streams, so the panic is turned into an error for the caller.
func newLedongthucPage(reader *lpdf.Reader, pageNumber int) (page Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ledongthuc panic on page %d: %v", pageNumber, r)
		}
	}()

	p := reader.Page(pageNumber)
	if p.V.IsNull() {
		return nil, fmt.Errorf("invalid page number: %d", pageNumber)
	}

	// Default to A4, the format RFB uses
	width, height := 595.0, 842.0
	mediaBox := p.V.Key("MediaBox")
	if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
		width = mediaBox.Index(2).Float64() - mediaBox.Index(0).Float64()
		height = mediaBox.Index(3).Float64() - mediaBox.Index(1).Float64()
	}

	content := p.Content()
	objects := Objects{}

	for _, text := range content.Text {
		objects.Chars = append(objects.Chars, splitGlyphRun(text.S, text.Font, text.FontSize, text.X, text.Y, text.W, height)...)
	}
	for _, rect := range content.Rect {
		objects.Rects = append(objects.Rects, flipRect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y, height))
	}

	return NewPage(pageNumber, width, height, objects), nil
}

// splitGlyphRun turns a positioned text run into per-character objects.
// PDF space has its origin at the bottom-left; pages here use the top-left.
func splitGlyphRun(s, font string, fontSize, x, y, w, pageHeight float64) []CharObject {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}

	// Baseline sits at roughly 80% of the font height
	top := pageHeight - (y + fontSize*0.8)
	charWidth := w / float64(len(runes))

	chars := make([]CharObject, 0, len(runes))
	for _, ch := range runes {
		if ch != ' ' {
			chars = append(chars, CharObject{
				Text:     string(ch),
				Font:     font,
				FontSize: fontSize,
				X0:       x,
				Y0:       top,
				X1:       x + charWidth,
				Y1:       top + fontSize,
				Width:    charWidth,
				Height:   fontSize,
			})
		}
		x += charWidth
	}
	return chars
}

func flipRect(minX, minY, maxX, maxY, pageHeight float64) RectObject {
	return RectObject{
		X0:    minX,
		Y0:    pageHeight - maxY,
		X1:    maxX,
		Y1:    pageHeight - minY,
		Width: maxX - minX,
	}
}
