package ocr

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// FitzRenderer renders pages with MuPDF
type FitzRenderer struct{}

func (FitzRenderer) Render(data []byte, dpi float64) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with mupdf: %w", err)
	}
	defer doc.Close()

	images := make([][]byte, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImagePNG(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	return images, nil
}
