// Package acquire turns uploaded PDF bytes into the text, layout text and
// tables the extractor works on.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/extract"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/ocr"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/pdf"
)

// Acquirer reads documents
type Acquirer struct {
	openers []pdf.Opener
	ocr     *ocr.Engine
	log     logrus.FieldLogger
}

// Option configures an Acquirer
type Option func(*Acquirer)

// WithOpeners replaces the PDF backend chain
func WithOpeners(openers ...pdf.Opener) Option {
	return func(a *Acquirer) {
		a.openers = openers
	}
}

// WithOCR attaches an OCR engine. Without one, scanned documents yield no text.
func WithOCR(e *ocr.Engine) Option {
	return func(a *Acquirer) {
		a.ocr = e
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Acquirer) {
		a.log = log
	}
}

// New creates an Acquirer
func New(opts ...Option) *Acquirer {
	a := &Acquirer{
		openers: pdf.DefaultOpeners,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire validates data, opens it with the first backend that can read it and
// collects every page's text and tables. OCR is attached lazily and only runs
// if an extraction strategy asks for it.
func (a *Acquirer) Acquire(ctx context.Context, filename string, data []byte) (*extract.Source, error) {
	log := a.log.WithField("file", filename)

	info, err := pdf.Inspect(data)
	if errors.Is(err, pdf.ErrNotPDF) {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err != nil {
		// relaxed readers often cope with what pdfcpu rejects
		log.WithError(err).Warn("PDF failed validation")
	}

	src := &extract.Source{Filename: filename}
	if a.ocr.Enabled() {
		src.OCR = func(ctx context.Context) (string, error) {
			return a.ocr.Text(ctx, data)
		}
	}

	doc, err := pdf.OpenWith(data, a.openers...)
	if err != nil {
		if src.OCR != nil && info.Valid {
			log.WithError(err).Warn("no text backend could read the document, relying on OCR")
			return src, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer doc.Close()

	var text, layout strings.Builder
	for _, page := range doc.GetPages() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text.WriteString(page.ExtractText())
		text.WriteString("\n")
		layout.WriteString(page.ExtractText(pdf.WithLayout(true)))
		layout.WriteString("\n")

		for _, table := range page.ExtractTables() {
			src.Tables = append(src.Tables, table.Rows)
		}
	}
	src.Text = text.String()
	src.Layout = layout.String()

	log.WithFields(logrus.Fields{
		"backend": doc.Backend(),
		"pages":   doc.PageCount(),
		"tables":  len(src.Tables),
	}).Debug("document acquired")

	return src, nil
}
