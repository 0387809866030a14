package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info is what the structural preflight learns about a document
type Info struct {
	PageCount int
	Valid     bool
}

// Inspect reads and validates the document structure with pdfcpu before any
// text extraction. Malformed uploads fail here with a readable error instead
// of producing garbage text further down.
func Inspect(data []byte) (Info, error) {
	if !IsPDF(data) {
		return Info{}, ErrNotPDF
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read PDF context: %w", err)
	}

	info := Info{PageCount: ctx.PageCount}

	if err := api.ValidateContext(ctx); err != nil {
		return info, fmt.Errorf("invalid PDF: %w", err)
	}
	info.Valid = true

	return info, nil
}
