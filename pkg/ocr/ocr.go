// Package ocr recognizes text on scanned statements: pages are rendered to
// images and fed to an OCR engine.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrDisabled is returned when OCR is switched off
var ErrDisabled = errors.New("ocr disabled")

const (
	DefaultDPI      = 200
	DefaultTimeout  = 2 * time.Minute
	DefaultLanguage = "por"
)

// Renderer rasterizes every page of a PDF to PNG
type Renderer interface {
	Render(data []byte, dpi float64) ([][]byte, error)
}

// Recognizer reads the text in one PNG image. A call already recognizing
// runs to completion; ctx only bounds the wait to start.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Engine renders and recognizes documents
type Engine struct {
	renderer   Renderer
	recognizer Recognizer
	dpi        float64
	timeout    time.Duration
	enabled    bool
	log        logrus.FieldLogger
}

// Option configures an Engine
type Option func(*Engine)

// WithDPI sets the render resolution
func WithDPI(dpi float64) Option {
	return func(e *Engine) {
		if dpi > 0 {
			e.dpi = dpi
		}
	}
}

// WithTimeout bounds one document's OCR run
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithEnabled turns OCR on or off
func WithEnabled(enabled bool) Option {
	return func(e *Engine) {
		e.enabled = enabled
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an Engine from a renderer and a recognizer
func New(renderer Renderer, recognizer Recognizer, opts ...Option) *Engine {
	e := &Engine{
		renderer:   renderer,
		recognizer: recognizer,
		dpi:        DefaultDPI,
		timeout:    DefaultTimeout,
		enabled:    true,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewTesseract creates an Engine backed by MuPDF rendering and Tesseract
func NewTesseract(language string, opts ...Option) *Engine {
	return New(FitzRenderer{}, &Tesseract{Language: language}, opts...)
}

// Enabled reports whether Text will do any work
func (e *Engine) Enabled() bool {
	return e != nil && e.enabled
}

// Close releases the recognizer when it holds resources
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	if c, ok := e.recognizer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type result struct {
	text string
	err  error
}

// Text recognizes every page of data and joins the pages with form feeds.
// It gives up when ctx is done or the engine timeout expires. The page being
// recognized at that moment finishes in the background and no further page
// is started.
func (e *Engine) Text(ctx context.Context, data []byte) (string, error) {
	if !e.Enabled() {
		return "", ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		text, err := e.recognize(ctx, data)
		done <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("ocr: %w", ctx.Err())
	case r := <-done:
		return r.text, r.err
	}
}

func (e *Engine) recognize(ctx context.Context, data []byte) (string, error) {
	start := time.Now()
	images, err := e.renderer.Render(data, e.dpi)
	if err != nil {
		return "", fmt.Errorf("failed to render pages: %w", err)
	}

	pages := make([]string, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := e.recognizer.Recognize(ctx, img)
		if err != nil {
			return "", fmt.Errorf("failed to recognize page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}

	e.log.WithFields(logrus.Fields{"pages": len(pages), "elapsed": time.Since(start)}).Debug("ocr done")
	return strings.Join(pages, "\f"), nil
}
