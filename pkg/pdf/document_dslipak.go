package pdf

import (
	"bytes"
	"fmt"

	gopdf "github.com/dslipak/pdf"
)

const backendDslipak = "dslipak"

// OpenWithDslipak parses an in-memory PDF using the dslipak/pdf library.
// It tolerates some cross-reference damage that ledongthuc rejects.
func OpenWithDslipak(data []byte) (Document, error) {
	r, err := gopdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with dslipak: %w", err)
	}

	pageCount := r.NumPage()
	pages := make([]Page, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page, err := newDslipakPage(r, i)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		pages = append(pages, page)
	}

	return &pagesDocument{backend: backendDslipak, pages: pages}, nil
}

func newDslipakPage(reader *gopdf.Reader, pageNumber int) (page Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dslipak panic on page %d: %v", pageNumber, r)
		}
	}()

	p := reader.Page(pageNumber)
	if p.V.IsNull() {
		return nil, fmt.Errorf("invalid page number: %d", pageNumber)
	}

	width, height := 595.0, 842.0
	mediaBox := p.V.Key("MediaBox")
	if mediaBox.Kind() == gopdf.Array && mediaBox.Len() == 4 {
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
