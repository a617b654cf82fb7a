// Package container provides dependency injection for the docextract application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"io"

	"github.com/gitveg/docextract/internal/config"
	"github.com/gitveg/docextract/internal/extraction"
	"github.com/gitveg/docextract/internal/imageload"
	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/ocr"
	"github.com/gitveg/docextract/internal/raster"
	"github.com/gitveg/docextract/internal/runner"
	"github.com/gitveg/docextract/internal/textlayer"
)

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger logging.Logger
	runner runner.Runner
}

// WithLogger uses logger instead of one built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRunner executes external tools through r.
func WithRunner(r runner.Runner) Option {
	return func(o *options) { o.runner = r }
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	renderer    raster.PageRenderer
	recognizer  ocr.TextRecognizer
	engine      *ocr.Engine
	coordinator *extraction.Coordinator
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
//
// Parameters:
//   - ctx: Context for backends that connect on creation (Gemini)
//   - cfg: Application configuration
//   - opts: Optional overrides for the logger and the command runner
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}
	run := o.runner
	if run == nil {
		run = runner.NewExecRunner(logger)
	}

	recognizer, err := newRecognizer(ctx, cfg, run, logger)
	if err != nil {
		return nil, err
	}

	renderer := raster.NewPopplerRenderer(raster.Options{
		Pdftoppm: cfg.PDF.Pdftoppm,
		Pdfinfo:  cfg.PDF.Pdfinfo,
		DPI:      cfg.PDF.DPI,
		MaxPages: cfg.PDF.MaxPages,
	}, run, logger)

	engine := ocr.NewEngine(recognizer, ocr.EngineOptions{
		PageWorkers: cfg.OCR.PageWorkers,
		Normalize:   cfg.OCR.Normalize,
	}, logger)

	coordinator := extraction.NewCoordinator(
		textlayer.NewPDFExtractor(logger),
		renderer,
		imageload.NewLoader(logger),
		engine,
		logger,
	)

	logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldBackend, Value: recognizer.Name()},
		logging.Field{Key: logging.FieldLanguages, Value: cfg.LanguageProfile()},
		logging.Field{Key: logging.FieldWorkers, Value: cfg.OCR.PageWorkers})

	return &Container{
		logger:      logger,
		config:      cfg,
		renderer:    renderer,
		recognizer:  recognizer,
		engine:      engine,
		coordinator: coordinator,
	}, nil
}

// newRecognizer selects the OCR backend named by ocr.backend.
func newRecognizer(ctx context.Context, cfg *config.Config, run runner.Runner, logger logging.Logger) (ocr.TextRecognizer, error) {
	opts := ocr.Options{
		Languages:   cfg.OCR.Languages,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
		OEM:         cfg.OCR.OEM,
	}

	switch cfg.OCR.Backend {
	case config.BackendTesseract, "":
		return ocr.NewTesseractRecognizer(cfg.OCR.Tesseract, opts, run, logger), nil
	case config.BackendGosseract:
		return ocr.NewGosseractRecognizer(opts, logger), nil
	case config.BackendGemini:
		g, err := ocr.NewGeminiRecognizer(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, opts, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown OCR backend: %s", cfg.OCR.Backend)
	}
}

// GetCoordinator returns the extraction coordinator.
func (c *Container) GetCoordinator() *extraction.Coordinator {
	return c.coordinator
}

// GetEngine returns the OCR engine shared by PDF fallback and image extraction.
func (c *Container) GetEngine() *ocr.Engine {
	return c.engine
}

// GetRenderer returns the PDF page renderer.
func (c *Container) GetRenderer() raster.PageRenderer {
	return c.renderer
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// Close releases backend connections.
func (c *Container) Close() error {
	if closer, ok := c.recognizer.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("close %s backend: %w", c.recognizer.Name(), err)
		}
	}
	c.logger.Info("Container closed")
	return nil
}
