package ocr

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeRenderer struct {
	pages int
	err   error
}

func (f fakeRenderer) Render(data []byte, dpi float64) ([][]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	images := make([][]byte, f.pages)
	for i := range images {
		images[i] = []byte{byte('A' + i)}
	}
	return images, nil
}

type fakeRecognizer struct {
	block chan struct{}
}

func (f fakeRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if f.block != nil {
		<-f.block
	}
	return "page " + string(image), nil
}

func quiet() Option {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return WithLogger(log)
}

func TestTextJoinsPages(t *testing.T) {
	e := New(fakeRenderer{pages: 3}, fakeRecognizer{}, quiet())

	text, err := e.Text(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Failed to recognize: %v", err)
	}
	if want := "page A\fpage B\fpage C"; text != want {
		t.Errorf("Expected %q, got %q", want, text)
	}
}

func TestTextDisabled(t *testing.T) {
	e := New(fakeRenderer{pages: 1}, fakeRecognizer{}, WithEnabled(false), quiet())

	if _, err := e.Text(context.Background(), nil); !errors.Is(err, ErrDisabled) {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}

	var nilEngine *Engine
	if nilEngine.Enabled() {
		t.Error("Expected nil engine to be disabled")
	}
}

func TestTextRenderError(t *testing.T) {
	e := New(fakeRenderer{err: errors.New("bad xref")}, fakeRecognizer{}, quiet())

	if _, err := e.Text(context.Background(), nil); err == nil {
		t.Error("Expected render error")
	}
}

func TestTextTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	e := New(fakeRenderer{pages: 1}, fakeRecognizer{block: block}, WithTimeout(20*time.Millisecond), quiet())

	start := time.Now()
	_, err := e.Text(context.Background(), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Timeout was not honoured")
	}
}

func TestTesseractWaitHonoursContext(t *testing.T) {
	tess := &Tesseract{}
	if err := tess.acquire(context.Background()); err != nil {
		t.Fatalf("Failed to take the client: %v", err)
	}
	defer tess.release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := tess.Recognize(ctx, []byte("png")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded while the client is busy, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("Waiting for the client ignored the deadline")
	}
}
