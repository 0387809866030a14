package batch

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/extract"
)

type fakeExtractor struct {
	mu     sync.Mutex
	active int
	peak   int
}

func (f *fakeExtractor) Extract(ctx context.Context, filename string, data []byte) (extract.Record, error) {
	f.mu.Lock()
	f.active++
	f.peak = max(f.peak, f.active)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	time.Sleep(5 * time.Millisecond)

	switch string(data) {
	case "fail":
		return extract.Record{}, errors.New("malformed PDF")
	case "panic":
		panic("corrupt xref")
	}
	return extract.Record{
		Filename: filename,
		Lines:    []extract.DebtLine{{Case: string(data), Balance: "1,00"}},
	}, nil
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunKeepsOrderAndReportsProgress(t *testing.T) {
	uploads := []Upload{
		{Filename: "a.pdf", Data: []byte("1")},
		{Filename: "b.pdf", Data: []byte("2")},
		{Filename: "c.pdf", Data: []byte("3")},
		{Filename: "d.pdf", Data: []byte("4")},
	}

	var calls []int
	p := NewProcessor(&fakeExtractor{}, WithWorkers(3), WithLogger(quietLogger()))
	res := p.Run(context.Background(), uploads, func(done, total int, filename string) {
		if total != len(uploads) {
			t.Errorf("Expected total %d, got %d", len(uploads), total)
		}
		calls = append(calls, done)
	})

	if len(res.Records) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(res.Records))
	}
	for i, rec := range res.Records {
		if rec.Filename != uploads[i].Filename {
			t.Errorf("Record %d: expected %s, got %s", i, uploads[i].Filename, rec.Filename)
		}
	}
	if len(calls) != 4 || calls[3] != 4 {
		t.Errorf("Unexpected progress calls: %v", calls)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", res.Warnings)
	}
}

func TestRunIsSequentialByDefault(t *testing.T) {
	fake := &fakeExtractor{}
	uploads := []Upload{{Filename: "a", Data: []byte("1")}, {Filename: "b", Data: []byte("2")}, {Filename: "c", Data: []byte("3")}}

	NewProcessor(fake, WithLogger(quietLogger())).Run(context.Background(), uploads, nil)
	if fake.peak != 1 {
		t.Errorf("Expected one document at a time, peak was %d", fake.peak)
	}
}

func TestRunFailuresBecomeWarnings(t *testing.T) {
	uploads := []Upload{
		{Filename: "good.pdf", Data: []byte("1")},
		{Filename: "bad.pdf", Data: []byte("fail")},
		{Filename: "worse.pdf", Data: []byte("panic")},
	}

	res := NewProcessor(&fakeExtractor{}, WithLogger(quietLogger())).Run(context.Background(), uploads, nil)
	if len(res.Records) != 1 || res.Records[0].Filename != "good.pdf" {
		t.Errorf("Expected only good.pdf, got %+v", res.Records)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", res.Warnings)
	}
	if res.Warnings[0].Filename != "bad.pdf" || res.Warnings[1].Filename != "worse.pdf" {
		t.Errorf("Unexpected warnings: %v", res.Warnings)
	}
	if res.Err() != nil {
		t.Errorf("Expected no batch error, got %v", res.Err())
	}
}

func TestRunNoRows(t *testing.T) {
	uploads := []Upload{{Filename: "bad.pdf", Data: []byte("fail")}}

	res := NewProcessor(&fakeExtractor{}, WithLogger(quietLogger())).Run(context.Background(), uploads, nil)
	if !errors.Is(res.Err(), ErrNoRows) {
		t.Errorf("Expected ErrNoRows, got %v", res.Err())
	}

	last := res.Warnings[len(res.Warnings)-1]
	if !errors.Is(last, ErrNoRows) {
		t.Errorf("Expected a batch-level ErrNoRows warning, got %v", last)
	}
	if last.Error() != ErrNoRows.Error() {
		t.Errorf("Unexpected message %q", last.Error())
	}
}

func TestRunEmptyBatch(t *testing.T) {
	res := NewProcessor(&fakeExtractor{}, WithLogger(quietLogger())).Run(context.Background(), nil, nil)
	if !errors.Is(res.Err(), ErrNoRows) {
		t.Errorf("Expected ErrNoRows, got %v", res.Err())
	}
}
