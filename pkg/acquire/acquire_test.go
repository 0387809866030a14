package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/pdf"
)

type fakeDocument struct {
	pages  []pdf.Page
	closed bool
}

func (d *fakeDocument) Backend() string { return "fake" }
func (d *fakeDocument) GetPages() []pdf.Page { return d.pages }
func (d *fakeDocument) PageCount() int { return len(d.pages) }
func (d *fakeDocument) Close() error { d.closed = true; return nil }
func (d *fakeDocument) GetPage(i int) (pdf.Page, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, fmt.Errorf("page %d out of range", i)
	}
	return d.pages[i], nil
}

func glyphs(s string, x, y float64) []pdf.CharObject {
	var chars []pdf.CharObject
	for _, r := range s {
		if r != ' ' {
			chars = append(chars, pdf.CharObject{
				Text: string(r), FontSize: 10,
				X0: x, Y0: y, X1: x + 5, Y1: y + 10,
				Width: 5, Height: 10,
			})
		}
		x += 5
	}
	return chars
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAcquireRejectsNonPDF(t *testing.T) {
	a := New(WithLogger(quietLogger()))

	_, err := a.Acquire(context.Background(), "notes.txt", []byte("hello"))
	if !errors.Is(err, pdf.ErrNotPDF) {
		t.Errorf("Expected ErrNotPDF, got %v", err)
	}
}

func TestAcquireUnreadable(t *testing.T) {
	a := New(WithLogger(quietLogger()))

	_, err := a.Acquire(context.Background(), "broken.pdf", []byte("%PDF-1.4\ngarbage"))
	if !errors.Is(err, pdf.ErrNoBackend) {
		t.Errorf("Expected ErrNoBackend, got %v", err)
	}
}

func TestAcquireCollectsTextAndTables(t *testing.T) {
	var objects pdf.Objects
	objects.Chars = append(objects.Chars, glyphs("MUNICIPIO DE CAMPINAS", 40, 50)...)
	objects.Chars = append(objects.Chars, glyphs("PROCESSO", 40, 100)...)
	objects.Chars = append(objects.Chars, glyphs("SALDO", 250, 100)...)
	objects.Chars = append(objects.Chars, glyphs("10880", 40, 115)...)
	objects.Chars = append(objects.Chars, glyphs("1,00", 250, 115)...)

	doc := &fakeDocument{pages: []pdf.Page{pdf.NewPage(1, 595, 842, objects)}}
	opener := func([]byte) (pdf.Document, error) { return doc, nil }

	a := New(WithLogger(quietLogger()), WithOpeners(opener))
	src, err := a.Acquire(context.Background(), "campinas.pdf", []byte("%PDF-1.4\n"))
	if err != nil {
		t.Fatalf("Failed to acquire: %v", err)
	}

	if !strings.Contains(src.Text, "MUNICIPIO DE CAMPINAS") {
		t.Errorf("Expected header in text, got %q", src.Text)
	}
	if src.Layout == "" {
		t.Error("Expected layout text")
	}
	if len(src.Tables) == 0 {
		t.Error("Expected at least one table")
	}
	if src.OCR != nil {
		t.Error("Expected no OCR without an engine")
	}
	if !doc.closed {
		t.Error("Expected the document to be closed")
	}
}
