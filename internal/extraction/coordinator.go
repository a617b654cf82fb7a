// Package extraction turns a document path into text. PDFs get two
// strategies, the embedded text layer and then rendering plus OCR; images get
// OCR only. Every outcome, including failures, is returned as a Result.
package extraction

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/ocr"
	"github.com/gitveg/docextract/internal/raster"
	"github.com/gitveg/docextract/internal/textlayer"
	"github.com/gitveg/docextract/internal/validation"
)

// ImageLoader opens an image file normalized for OCR.
type ImageLoader interface {
	Load(path string) (image.Image, error)
}

// Recognizer is the OCR stage; *ocr.Engine implements it.
type Recognizer interface {
	Backend() string
	RecognizeImage(ctx context.Context, path string, img image.Image) (string, error)
	RecognizePages(ctx context.Context, path string, pages int, render ocr.PageFunc) (string, error)
}

// Coordinator runs the extraction state machine. It holds no per-call state
// and is safe for concurrent use when its collaborators are.
type Coordinator struct {
	textLayer textlayer.Extractor
	renderer  raster.PageRenderer
	loader    ImageLoader
	ocr       Recognizer
	logger    logging.Logger
}

// NewCoordinator creates a Coordinator from its stages.
func NewCoordinator(
	textLayer textlayer.Extractor,
	renderer raster.PageRenderer,
	loader ImageLoader,
	recognizer Recognizer,
	logger logging.Logger,
) *Coordinator {
	return &Coordinator{
		textLayer: textLayer,
		renderer:  renderer,
		loader:    loader,
		ocr:       recognizer,
		logger:    logging.OrDefault(logger),
	}
}

// PDFText extracts text from a PDF and renders the outcome as a string.
// Failures start with extracterror.Marker.
func (c *Coordinator) PDFText(ctx context.Context, path string) string {
	return c.ExtractPDF(ctx, path).Message()
}

// ImageText extracts text from an image and renders the outcome as a string.
// Failures start with extracterror.Marker.
func (c *Coordinator) ImageText(ctx context.Context, path string) string {
	return c.ExtractImage(ctx, path).Message()
}

// Extract dispatches on kind.
func (c *Coordinator) Extract(ctx context.Context, path string, kind validation.DocumentKind) Result {
	switch kind {
	case validation.KindPDF:
		return c.ExtractPDF(ctx, path)
	case validation.KindImage:
		return c.ExtractImage(ctx, path)
	default:
		r := c.begin(path, kind)
		return r.fail(&extracterror.ProcessingError{
			Path:  path,
			Stage: "validation",
			Err:   fmt.Errorf("unknown document kind %q", kind),
		})
	}
}

// ExtractPDF tries the text layer first and falls back to rendering every
// page and recognizing it. A missing engine ends the call; nothing runs
// below rasterization.
func (c *Coordinator) ExtractPDF(ctx context.Context, path string) (res Result) {
	r := c.begin(path, validation.KindPDF)
	defer r.recoverPanic(&res)

	r.to(StateValidating)
	if err := validation.ValidatePDF(path); err != nil {
		return r.fail(err)
	}

	r.to(StateDirectAttempt)
	direct := c.textLayer.Extract(path)
	if direct.Found {
		r.res.Pages = direct.Pages
		return r.succeed(direct.Text, MethodDirectText)
	}
	r.log.Warn("No usable text layer, falling back to OCR",
		logging.Field{Key: "reason", Value: direct.Reason})

	r.to(StateFallbackAttempt)
	r.res.Backend = c.ocr.Backend()
	pages, err := c.renderer.Pages(ctx, path)
	if err != nil {
		return r.fail(err)
	}
	r.res.Pages = pages
	text, err := c.ocr.RecognizePages(ctx, path, pages, func(ctx context.Context, page int) (image.Image, error) {
		return c.renderer.RenderPage(ctx, path, page)
	})
	if err != nil {
		return r.fail(err)
	}
	return r.succeed(text, MethodOCR)
}

// ExtractImage validates the extension and existence, then runs OCR. There
// is no second strategy for images.
func (c *Coordinator) ExtractImage(ctx context.Context, path string) (res Result) {
	r := c.begin(path, validation.KindImage)
	defer r.recoverPanic(&res)

	r.to(StateValidating)
	if err := validation.ValidateImage(path); err != nil {
		return r.fail(err)
	}

	r.to(StateDirectAttempt)
	r.res.Backend = c.ocr.Backend()
	img, err := c.loader.Load(path)
	if err != nil {
		return r.fail(err)
	}
	r.res.Pages = 1
	text, err := c.ocr.RecognizeImage(ctx, path, img)
	if err != nil {
		return r.fail(err)
	}
	return r.succeed(text, MethodOCR)
}

// call tracks one extraction through the state machine.
type call struct {
	state State
	start time.Time
	res   Result
	log   logging.Logger
}

func (c *Coordinator) begin(path string, kind validation.DocumentKind) *call {
	return &call{
		state: StateStart,
		start: time.Now(),
		res:   Result{Path: path, Kind: kind, States: []State{StateStart}},
		log: c.logger.WithFields(
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldKind, Value: kind}),
	}
}

func (r *call) to(next State) {
	if !r.state.CanTransition(next) {
		r.log.Error("Illegal state transition",
			logging.Field{Key: "from", Value: r.state},
			logging.Field{Key: "to", Value: next})
	}
	r.log.Debug("State transition",
		logging.Field{Key: "from", Value: r.state},
		logging.Field{Key: logging.FieldStage, Value: next})
	r.state = next
	r.res.States = append(r.res.States, next)
}

func (r *call) succeed(text string, method Method) Result {
	r.to(StateSuccess)
	r.res.Text = text
	r.res.Method = method
	r.res.Duration = time.Since(r.start)
	r.log.Info("Extraction succeeded",
		logging.Field{Key: logging.FieldMethod, Value: method},
		logging.Field{Key: logging.FieldPages, Value: r.res.Pages},
		logging.Field{Key: logging.FieldBytes, Value: len(text)},
		logging.Field{Key: logging.FieldDuration, Value: r.res.Duration.Milliseconds()})
	return r.res
}

func (r *call) fail(err error) Result {
	r.to(StateFailure)
	r.res.Text = ""
	r.res.Method = MethodNone
	r.res.Err = err
	r.res.Duration = time.Since(r.start)
	r.log.WithError(err).Warn("Extraction failed",
		logging.Field{Key: logging.FieldErrorKind, Value: extracterror.KindOf(err)},
		logging.Field{Key: logging.FieldDuration, Value: r.res.Duration.Milliseconds()})
	return r.res
}

// recoverPanic turns a panic in any stage into a processing failure so it
// never reaches the caller.
func (r *call) recoverPanic(res *Result) {
	if p := recover(); p != nil {
		*res = r.fail(&extracterror.ProcessingError{
			Path:  r.res.Path,
			Stage: "extraction",
			Err:   fmt.Errorf("panic: %v", p),
		})
	}
}
