package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/extraction"
	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/validation"
)

// Extractor is the part of *extraction.Coordinator the processor needs.
type Extractor interface {
	Extract(ctx context.Context, path string, kind validation.DocumentKind) extraction.Result
}

// Options configures a Processor.
type Options struct {
	// Workers bounds concurrent extractions; values below 1 mean 1.
	Workers int
	// TraceIDs stamps every record with a random UUID.
	TraceIDs bool
}

// Processor extracts every manifest entry and collects one report per entry.
type Processor struct {
	extractor Extractor
	opts      Options
	logger    logging.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(extractor Extractor, opts Options, logger logging.Logger) *Processor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Processor{extractor: extractor, opts: opts, logger: logging.OrDefault(logger)}
}

// Run processes entries and returns their reports in input order. A failed
// extraction is a record, not an error; entries not started before ctx is
// done are reported as processing failures.
func (p *Processor) Run(ctx context.Context, entries []Entry) []extraction.Report {
	start := time.Now()
	reports := make([]extraction.Report, len(entries))

	p.logger.Info("Starting batch",
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
		logging.Field{Key: logging.FieldWorkers, Value: p.opts.Workers})

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i, entry := range entries {
		g.Go(func() error {
			reports[i] = p.process(ctx, entry)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range reports {
		if r.Error != "" {
			failed++
		}
	}
	p.logger.Info("Batch finished",
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
		logging.Field{Key: "failed", Value: failed},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return reports
}

func (p *Processor) process(ctx context.Context, entry Entry) extraction.Report {
	kind, err := entry.DocumentKind()
	var res extraction.Result
	switch {
	case err != nil:
		res = extraction.Result{Path: entry.Path, Kind: validation.DocumentKind(entry.Kind),
			Err: &extracterror.ProcessingError{Path: entry.Path, Stage: "validation", Err: err}}
	case ctx.Err() != nil:
		res = extraction.Result{Path: entry.Path, Kind: kind,
			Err: &extracterror.ProcessingError{Path: entry.Path, Stage: "batch", Err: ctx.Err()}}
	default:
		res = p.extractor.Extract(ctx, entry.Path, kind)
	}

	rep := res.Report()
	if p.opts.TraceIDs {
		rep.TraceID = uuid.NewString()
	}
	p.logger.Debug("Batch entry done",
		logging.Field{Key: logging.FieldFile, Value: entry.Path},
		logging.Field{Key: logging.FieldTraceID, Value: rep.TraceID},
		logging.Field{Key: logging.FieldErrorKind, Value: rep.ErrorKind})
	return rep
}
