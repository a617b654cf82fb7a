// Package ocr recognizes text in raster images. A TextRecognizer wraps one
// backend (the tesseract CLI, libtesseract through gosseract, or Gemini
// vision); Engine applies the result rules shared by all of them.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// TextRecognizer runs one recognition backend over one image. It returns the
// raw text, which may be empty. A backend that is not installed or not
// reachable reports an *extracterror.EngineMissingError.
type TextRecognizer interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Options configures the mixed-language recognition profile.
type Options struct {
	// Languages are tesseract language codes, recognized simultaneously.
	Languages []string
	// TessdataDir overrides the language data location when set.
	TessdataDir string
	// PSM is the page segmentation mode; 0 keeps the backend default.
	PSM int
	// OEM is the engine mode; -1 keeps the backend default.
	OEM int
}

// DefaultLanguages recognizes Simplified Chinese and English together.
var DefaultLanguages = []string{"chi_sim", "eng"}

func (o Options) languages() []string {
	if len(o.Languages) == 0 {
		return DefaultLanguages
	}
	return o.Languages
}

func (o Options) profile() string {
	return strings.Join(o.languages(), "+")
}

// encodePNG serializes img for backends that take encoded bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
