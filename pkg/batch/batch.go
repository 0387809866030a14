// Package batch extracts a set of uploaded documents. One failing document
// never stops the others.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pyhub-apps/rfbdebt-golang/pkg/acquire"
	"github.com/pyhub-apps/rfbdebt-golang/pkg/extract"
)

// ErrNoRows is reported when no document produced a record
var ErrNoRows = errors.New("no document produced any rows")

// Upload is one input document
type Upload struct {
	Filename string
	Data     []byte
}

// Warning is a per-document failure
type Warning struct {
	Filename string
	Err      error
}

func (w Warning) Error() string {
	if w.Filename == "" {
		return w.Err.Error()
	}
	return fmt.Sprintf("%s: %v", w.Filename, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }

// Result is the outcome of a batch. Records keep the upload order.
type Result struct {
	Records  []extract.Record
	Warnings []Warning
}

// Err returns ErrNoRows when the batch has nothing to export
func (r Result) Err() error {
	if len(r.Records) == 0 {
		return ErrNoRows
	}
	return nil
}

// Progress is called after each document with the number done so far
type Progress func(done, total int, filename string)

// Extractor turns one document into a Record
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (extract.Record, error)
}

// Pipeline is the production Extractor: acquisition followed by the strategy
// chain
type Pipeline struct {
	Acquirer  *acquire.Acquirer
	Extractor *extract.Extractor
}

func (p Pipeline) Extract(ctx context.Context, filename string, data []byte) (extract.Record, error) {
	src, err := p.Acquirer.Acquire(ctx, filename, data)
	if err != nil {
		return extract.Record{}, err
	}
	return p.Extractor.Run(ctx, src), nil
}

// Processor runs batches
type Processor struct {
	extractor Extractor
	workers   int
	log       logrus.FieldLogger
}

// Option configures a Processor
type Option func(*Processor)

// WithWorkers sets how many documents are extracted at once
func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Processor) {
		p.log = log
	}
}

// NewProcessor creates a Processor. By default documents are handled one at
// a time.
func NewProcessor(extractor Extractor, opts ...Option) *Processor {
	p := &Processor{
		extractor: extractor,
		workers:   1,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run extracts every upload. Per-document errors become warnings; a warning
// with an empty filename is added when the batch has no rows at all.
func (p *Processor) Run(ctx context.Context, uploads []Upload, progress Progress) Result {
	records := make([]*extract.Record, len(uploads))
	failures := make([]error, len(uploads))

	var mu sync.Mutex
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, up := range uploads {
		g.Go(func() error {
			log := p.log.WithField("file", up.Filename)

			rec, err := p.extract(ctx, up)
			if err != nil {
				log.WithError(err).Error("failed to extract document")
				failures[i] = err
			} else {
				log.WithField("lines", len(rec.Lines)).Info("document extracted")
				records[i] = &rec
			}

			mu.Lock()
			done++
			if progress != nil {
				progress(done, len(uploads), up.Filename)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var res Result
	for i, up := range uploads {
		if failures[i] != nil {
			res.Warnings = append(res.Warnings, Warning{Filename: up.Filename, Err: failures[i]})
			continue
		}
		if records[i] == nil {
			continue
		}
		res.Records = append(res.Records, *records[i])
		for _, w := range records[i].Warnings {
			res.Warnings = append(res.Warnings, Warning{Filename: up.Filename, Err: errors.New(w)})
		}
	}

	if err := res.Err(); err != nil {
		res.Warnings = append(res.Warnings, Warning{Err: err})
	}
	return res
}

func (p *Processor) extract(ctx context.Context, up Upload) (rec extract.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while extracting: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return extract.Record{}, err
	}
	return p.extractor.Extract(ctx, up.Filename, up.Data)
}
