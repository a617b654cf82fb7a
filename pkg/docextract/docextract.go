// Package docextract is the string-in, string-out entry point for callers
// such as agents and scripts: pass a path, get back the extracted text or a
// message starting with "Error:".
package docextract

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gitveg/docextract/internal/config"
	"github.com/gitveg/docextract/internal/container"
	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/extraction"
	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/validation"
)

// Extractor runs extractions with a fixed configuration. It is safe for
// concurrent use.
type Extractor struct {
	c *container.Container
}

// New creates an Extractor from cfg. A nil cfg uses the defaults.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Extractor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	var opts []container.Option
	if logger != nil {
		opts = append(opts, container.WithLogger(logger))
	}
	c, err := container.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Extractor{c: c}, nil
}

// PDFText extracts the text of a PDF, falling back to OCR for scans.
func (e *Extractor) PDFText(ctx context.Context, path string) string {
	return e.c.GetCoordinator().PDFText(ctx, path)
}

// ImageText recognizes the text of an image.
func (e *Extractor) ImageText(ctx context.Context, path string) string {
	return e.c.GetCoordinator().ImageText(ctx, path)
}

// Extract returns the structured result for path, inferring its kind from
// the extension.
func (e *Extractor) Extract(ctx context.Context, path string) extraction.Result {
	return e.c.GetCoordinator().Extract(ctx, path, validation.KindFromPath(path))
}

// Close releases backend connections.
func (e *Extractor) Close() error {
	return e.c.Close()
}

var (
	defaultOnce sync.Once
	defaultExt  *Extractor
	defaultErr  error
)

// shared builds the package-level Extractor from .env, config files and the
// environment on first use.
func shared() (*Extractor, error) {
	defaultOnce.Do(func() {
		config.LoadEnv()
		cfg, err := config.InitializeConfig()
		if err != nil {
			defaultErr = err
			return
		}
		defaultExt, defaultErr = New(context.Background(), cfg, nil)
	})
	return defaultExt, defaultErr
}

// ExtractPDFText extracts text from the PDF at path with the shared
// configuration.
func ExtractPDFText(path string) string {
	e, err := shared()
	if err != nil {
		return setupFailure(err)
	}
	return e.PDFText(context.Background(), path)
}

// ExtractImageText recognizes text in the image at path with the shared
// configuration.
func ExtractImageText(path string) string {
	e, err := shared()
	if err != nil {
		return setupFailure(err)
	}
	return e.ImageText(context.Background(), path)
}

// IsError reports whether a result string is a failure message.
func IsError(result string) bool {
	return extracterror.IsFailure(result)
}

// setupFailure renders a configuration or backend setup error for the
// string boundary.
func setupFailure(err error) string {
	var xe extracterror.ExtractionError
	if errors.As(err, &xe) {
		return xe.UserMessage()
	}
	return fmt.Sprintf("%s extraction is not configured: %v", extracterror.Marker, err)
}
