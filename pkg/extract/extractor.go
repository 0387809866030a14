package extract

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Extractor runs the strategy chain over a Source
type Extractor struct {
	strategies    []Strategy
	naming        NamingConvention
	minCaseDigits int
	forceOCR      bool
	log           logrus.FieldLogger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithStrategies replaces the default strategy list
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		e.strategies = strategies
	}
}

// WithNaming sets how a municipality is read from the filename when the
// header has none
func WithNaming(n NamingConvention) Option {
	return func(e *Extractor) {
		e.naming = n
	}
}

// WithMinCaseDigits sets the shortest digit run accepted as a case number
func WithMinCaseDigits(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minCaseDigits = n
		}
	}
}

// WithForceOCR runs OCR before the native text strategies
func WithForceOCR(force bool) Option {
	return func(e *Extractor) {
		e.forceOCR = force
	}
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Extractor) {
		e.log = log
	}
}

// New creates an Extractor
func New(opts ...Option) *Extractor {
	e := &Extractor{
		naming:        FilenameConvention{},
		minCaseDigits: DefaultMinCaseDigits,
		log:           logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.strategies == nil {
		e.strategies = DefaultStrategies(e.minCaseDigits)
	}
	return e
}

func (e *Extractor) order() []Strategy {
	if !e.forceOCR {
		return e.strategies
	}
	ordered := make([]Strategy, 0, len(e.strategies))
	for _, s := range e.strategies {
		if s.Method() == MethodOCR {
			ordered = append(ordered, s)
		}
	}
	for _, s := range e.strategies {
		if s.Method() != MethodOCR {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// Run extracts a Record from src. The first strategy returning lines wins;
// when none does the statement total decides between a consolidated and a
// no-debt line.
func (e *Extractor) Run(ctx context.Context, src *Source) Record {
	log := e.log.WithField("file", src.Filename)

	h := ParseHeader(src.Text)
	rec := Record{Filename: src.Filename}

	for _, s := range e.order() {
		if err := ctx.Err(); err != nil {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("%s: %v", s.Method(), err))
			break
		}

		lines, err := s.Lines(ctx, src, h)
		if err != nil {
			log.WithError(err).WithField("method", s.Method()).Warn("strategy failed")
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("%s: %v", s.Method(), err))
			continue
		}
		if len(lines) > 0 {
			log.WithFields(logrus.Fields{"method": s.Method(), "lines": len(lines)}).Debug("strategy matched")
			rec.Lines = lines
			break
		}
	}

	if src.ocrDone && src.ocrErr == nil {
		h = mergeHeader(h, ParseHeader(src.ocrText))
	}
	if h.Municipality == UnknownMunicipality && e.naming != nil {
		if name := e.naming.Municipality(src.Filename); name != "" {
			h.Municipality = name
		}
	}
	rec.Municipality = h.Municipality
	rec.CNPJ = h.CNPJ

	if len(rec.Lines) == 0 {
		fallback := Resolve(h)
		log.WithField("method", fallback.Method).Debug("no debt rows found")
		rec.Lines = []DebtLine{fallback}
	}
	return rec
}
