package pdf

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrNotPDF is returned when the bytes do not start with a PDF header
	ErrNotPDF = errors.New("not a PDF document")

	// ErrNoBackend is returned when every parsing backend rejected the document
	ErrNoBackend = errors.New("no PDF backend could read the document")
)

// Opener parses an in-memory PDF into a Document
type Opener func(data []byte) (Document, error)

// DefaultOpeners is the fallback order used by Open
var DefaultOpeners = []Opener{
	// Try ledongthuc implementation first as it has the most accurate text extraction
	OpenWithLedongthuc,
	OpenWithDslipak,
}

// Open parses data with the first backend that accepts it
func Open(data []byte) (Document, error) {
	return OpenWith(data, DefaultOpeners...)
}

// OpenWith tries each opener in order and returns the first document that
// has at least one page
func OpenWith(data []byte, openers ...Opener) (Document, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}

	var errs []error
	for _, open := range openers {
		doc, err := open(data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if doc.PageCount() == 0 {
			doc.Close()
			errs = append(errs, fmt.Errorf("%s: document has no pages", doc.Backend()))
			continue
		}
		return doc, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrNoBackend, errors.Join(errs...))
}

// IsPDF reports whether data carries the %PDF- magic within its first KB
func IsPDF(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}
