// Package rfbdebt extracts debt lines from Receita Federal "Saldo Devedor"
// statements and exports them as spreadsheets and letters.
package rfbdebt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/acquire"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/batch"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/config"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/extract"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/ocr"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/pdf"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/report"
)

// Re-export types for the public API
type (
	Record   = extract.Record
	DebtLine = extract.DebtLine
	Method   = extract.Method
	Row      = report.Row
	Upload   = batch.Upload
	Warning  = batch.Warning
	Result   = batch.Result
	Document = pdf.Document
	Page     = pdf.Page
	Table    = pdf.Table
)

// Re-export option functions
var (
	WithLayout        = pdf.WithLayout
	WithTableStrategy = pdf.WithTableStrategy
	WithMinTableSize  = pdf.WithMinTableSize
	WithNaming        = extract.WithNaming
	WithMinCaseDigits = extract.WithMinCaseDigits
	WithForceOCR      = extract.WithForceOCR
)

// Open reads a PDF file from disk with the default backend chain
func Open(path string) (pdf.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return pdf.Open(data)
}

// Pipeline bundles everything needed to process documents
type Pipeline struct {
	batch.Pipeline
	OCR *ocr.Engine
}

// Close releases the OCR engine
func (p *Pipeline) Close() error {
	return p.OCR.Close()
}

// NewPipeline wires acquisition, OCR and extraction from cfg
func NewPipeline(cfg config.Config, log logrus.FieldLogger) *Pipeline {
	engine := ocr.NewTesseract(cfg.OCRLanguage,
		ocr.WithEnabled(cfg.OCREnabled),
		ocr.WithDPI(cfg.OCRDPI),
		ocr.WithTimeout(cfg.OCRTimeout),
		ocr.WithLogger(log),
	)

	return &Pipeline{
		Pipeline: batch.Pipeline{
			Acquirer: acquire.New(acquire.WithOCR(engine), acquire.WithLogger(log)),
			Extractor: extract.New(
				extract.WithMinCaseDigits(cfg.MinCaseDigits),
				extract.WithForceOCR(cfg.OCRForce),
				extract.WithLogger(log),
			),
		},
		OCR: engine,
	}
}

// NewProcessor creates a batch processor over p using cfg's worker count
func NewProcessor(p *Pipeline, cfg config.Config, log logrus.FieldLogger) *batch.Processor {
	return batch.NewProcessor(p, batch.WithWorkers(cfg.Workers), batch.WithLogger(log))
}

// ReadUploads loads files from disk as uploads named by their base name
func ReadUploads(paths ...string) ([]Upload, error) {
	uploads := make([]Upload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		uploads = append(uploads, Upload{Filename: filepath.Base(path), Data: data})
	}
	return uploads, nil
}

// ExtractFile extracts one PDF from disk
func ExtractFile(ctx context.Context, p *Pipeline, path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.Extract(ctx, filepath.Base(path), data)
}
