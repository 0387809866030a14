package ocr

import (
	"context"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with a single gosseract client. The client is not
// safe for concurrent use so calls take turns on a one-slot semaphore, which
// callers stop waiting on once their context is done.
type Tesseract struct {
	Language string

	once   sync.Once
	sem    chan struct{}
	client *gosseract.Client
}

func (t *Tesseract) acquire(ctx context.Context) error {
	t.once.Do(func() { t.sem = make(chan struct{}, 1) })
	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		<-t.sem
		return err
	}
	return nil
}

func (t *Tesseract) release() { <-t.sem }

func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := t.acquire(ctx); err != nil {
		return "", err
	}
	defer t.release()

	if t.client == nil {
		t.client = gosseract.NewClient()
		lang := t.Language
		if lang == "" {
			lang = DefaultLanguage
		}
		if err := t.client.SetLanguage(lang); err != nil {
			t.client.Close()
			t.client = nil
			return "", err
		}
	}

	if err := t.client.SetImageFromBytes(image); err != nil {
		return "", err
	}
	return t.client.Text()
}

// Close releases the Tesseract client once any running call has finished
func (t *Tesseract) Close() error {
	if err := t.acquire(context.Background()); err != nil {
		return err
	}
	defer t.release()

	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}
