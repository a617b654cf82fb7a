//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/logging"
)

// GosseractRecognizer runs libtesseract in-process through gosseract.
type GosseractRecognizer struct {
	opts   Options
	logger logging.Logger
}

// NewGosseractRecognizer creates a GosseractRecognizer.
func NewGosseractRecognizer(opts Options, logger logging.Logger) *GosseractRecognizer {
	return &GosseractRecognizer{opts: opts, logger: logging.OrDefault(logger)}
}

func (g *GosseractRecognizer) Name() string { return "gosseract" }

// Recognize uses a fresh client per image; clients are not safe for
// concurrent use.
func (g *GosseractRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	c := gosseract.NewClient()
	defer c.Close()

	if g.opts.TessdataDir != "" {
		if err := c.SetTessdataPrefix(g.opts.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata dir: %w", err)
		}
	}
	if err := c.SetLanguage(g.opts.languages()...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if g.opts.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(g.opts.PSM)); err != nil {
			return "", fmt.Errorf("set page segmentation mode: %w", err)
		}
	}
	if g.opts.OEM >= 0 {
		if err := c.SetVariable(gosseract.SettableVariable("tessedit_ocr_engine_mode"), strconv.Itoa(g.opts.OEM)); err != nil {
			return "", fmt.Errorf("set engine mode: %w", err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		// Initialization fails when language data cannot be loaded.
		if strings.Contains(err.Error(), "initialize") {
			return "", &extracterror.EngineMissingError{
				Engine:  extracterror.EngineOCR,
				Backend: "libtesseract " + g.opts.profile(),
				Remedy:  "Install the tesseract language data or set ocr.tessdata_dir.",
				Err:     err,
			}
		}
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
