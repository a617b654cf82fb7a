package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/logging"
)

const stageRecognition = "text recognition"

// PageFunc renders one page, numbered from 1.
type PageFunc func(ctx context.Context, page int) (image.Image, error)

// EngineOptions configures an Engine.
type EngineOptions struct {
	// PageWorkers bounds concurrent page recognition; values below 1 mean 1.
	PageWorkers int
	// Normalize collapses noisy whitespace in the recognized text.
	Normalize bool
}

// Engine applies the recognition rules shared by every backend: whitespace
// only output is an empty result, and page text is joined in page order.
type Engine struct {
	recognizer TextRecognizer
	opts       EngineOptions
	logger     logging.Logger
}

// NewEngine creates an Engine around recognizer.
func NewEngine(recognizer TextRecognizer, opts EngineOptions, logger logging.Logger) *Engine {
	if opts.PageWorkers < 1 {
		opts.PageWorkers = 1
	}
	return &Engine{recognizer: recognizer, opts: opts, logger: logging.OrDefault(logger)}
}

// Backend names the recognition backend.
func (e *Engine) Backend() string {
	return e.recognizer.Name()
}

// RecognizeImage recognizes a single image read from path.
func (e *Engine) RecognizeImage(ctx context.Context, path string, img image.Image) (string, error) {
	start := time.Now()
	text, err := e.recognizer.Recognize(ctx, img)
	if err != nil {
		return "", wrap(path, err)
	}
	if e.opts.Normalize {
		text = Normalize(text)
	}

	e.logger.Debug("Image recognized",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldEngine, Value: e.Backend()},
		logging.Field{Key: logging.FieldBytes, Value: len(text)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})

	if strings.TrimSpace(text) == "" {
		return "", &extracterror.EmptyResultError{Path: path}
	}
	return text, nil
}

// RecognizePages renders and recognizes pages 1..pages and joins the results,
// each page followed by "\n". Pages run on up to PageWorkers goroutines; the
// first failure stops the remaining pages.
func (e *Engine) RecognizePages(ctx context.Context, path string, pages int, render PageFunc) (string, error) {
	if pages <= 0 {
		return "", &extracterror.EmptyResultError{Path: path}
	}

	results := make([]string, pages)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.PageWorkers)

	for i := 0; i < pages; i++ {
		page := i + 1
		g.Go(func() (err error) {
			// Backend panics are reported as page failures.
			defer func() {
				if p := recover(); p != nil {
					err = wrap(path, fmt.Errorf("page %d: panic: %v", page, p))
				}
			}()
			if gctx.Err() != nil {
				return nil
			}
			img, err := render(gctx, page)
			if err != nil {
				return err
			}
			text, err := e.recognizer.Recognize(gctx, img)
			if err != nil {
				return wrap(path, err)
			}
			results[page-1] = text
			e.logger.Debug("Page recognized",
				logging.Field{Key: logging.FieldFile, Value: path},
				logging.Field{Key: logging.FieldPage, Value: page},
				logging.Field{Key: logging.FieldBytes, Value: len(text)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	// A cancelled parent leaves pages unrecognized without an error from any worker.
	if err := ctx.Err(); err != nil {
		return "", wrap(path, err)
	}

	var sb strings.Builder
	for _, text := range results {
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	text := sb.String()
	if e.opts.Normalize {
		text = Normalize(text)
	}
	if strings.TrimSpace(text) == "" {
		return "", &extracterror.EmptyResultError{Path: path}
	}
	return text, nil
}

// wrap keeps taxonomy errors as they are and reports anything else as a
// recognition failure for path.
func wrap(path string, err error) error {
	var xe extracterror.ExtractionError
	if errors.As(err, &xe) {
		return err
	}
	return &extracterror.ProcessingError{Path: path, Stage: stageRecognition, Err: err}
}
