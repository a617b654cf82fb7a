//go:build !gosseract

package ocr

import (
	"context"
	"image"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/logging"
)

// GosseractRecognizer is unavailable in builds without the gosseract tag.
type GosseractRecognizer struct {
	opts Options
}

// NewGosseractRecognizer returns a recognizer that always reports the
// in-process backend as missing.
func NewGosseractRecognizer(opts Options, _ logging.Logger) *GosseractRecognizer {
	return &GosseractRecognizer{opts: opts}
}

func (g *GosseractRecognizer) Name() string { return "gosseract" }

func (g *GosseractRecognizer) Recognize(context.Context, image.Image) (string, error) {
	return "", &extracterror.EngineMissingError{
		Engine:  extracterror.EngineOCR,
		Backend: "gosseract",
		Remedy:  "Rebuild with -tags gosseract (requires libtesseract) or set ocr.backend to tesseract.",
	}
}
