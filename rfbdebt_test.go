package rfbdebt

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/batch"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/config"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/pdf"
)

func testConfig() config.Config {
	return config.Config{
		Workers:       2,
		OCREnabled:    false,
		OCRLanguage:   "por",
		MinCaseDigits: 7,
	}
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestOpenRejectsNonPDF(t *testing.T) {
	_, err := Open(writeFile(t, "notes.pdf", "not really a pdf"))
	if !errors.Is(err, pdf.ErrNotPDF) {
		t.Errorf("Expected ErrNotPDF, got %v", err)
	}
}

func TestNewPipelineHonoursOCRSwitch(t *testing.T) {
	p := NewPipeline(testConfig(), quietLogger())
	defer p.Close()

	if p.OCR.Enabled() {
		t.Error("Expected OCR to be disabled")
	}
}

func TestExtractFileRejectsNonPDF(t *testing.T) {
	p := NewPipeline(testConfig(), quietLogger())
	defer p.Close()

	_, err := ExtractFile(context.Background(), p, writeFile(t, "x.pdf", "hello"))
	if !errors.Is(err, pdf.ErrNotPDF) {
		t.Errorf("Expected ErrNotPDF, got %v", err)
	}
}

func TestReadUploads(t *testing.T) {
	path := writeFile(t, "rfb-CAMPINAS.pdf", "%PDF-1.4")

	uploads, err := ReadUploads(path)
	if err != nil {
		t.Fatalf("Failed to read uploads: %v", err)
	}
	if len(uploads) != 1 || uploads[0].Filename != "rfb-CAMPINAS.pdf" {
		t.Errorf("Unexpected uploads: %+v", uploads)
	}

	if _, err := ReadUploads(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestProcessorReportsUnreadableDocuments(t *testing.T) {
	cfg := testConfig()
	p := NewPipeline(cfg, quietLogger())
	defer p.Close()

	uploads := []Upload{
		{Filename: "a.txt", Data: []byte("plain text")},
		{Filename: "b.pdf", Data: []byte("%PDF-1.4\ngarbage")},
	}
	res := NewProcessor(p, cfg, quietLogger()).Run(context.Background(), uploads, nil)

	if !errors.Is(res.Err(), batch.ErrNoRows) {
		t.Errorf("Expected ErrNoRows, got %v", res.Err())
	}
	if len(res.Warnings) != 3 {
		t.Errorf("Expected 2 document warnings and a batch warning, got %v", res.Warnings)
	}
}
