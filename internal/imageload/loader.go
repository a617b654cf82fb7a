// Package imageload decodes image files and normalizes their color model so
// every OCR backend receives either 8-bit grayscale or 8-bit truecolor.
package imageload

import (
	"bufio"
	"errors"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/fs"
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/logging"
)

// Loader opens image files for OCR.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a Loader.
func NewLoader(logger logging.Logger) *Loader {
	return &Loader{logger: logging.OrDefault(logger)}
}

// Load decodes path and normalizes it. A file that cannot be decoded is a
// processing failure carrying the decoder's message.
func (l *Loader) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &extracterror.NotFoundError{Path: path, Document: "Image"}
		}
		return nil, &extracterror.ProcessingError{Path: path, Stage: "image decoding", Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, &extracterror.ProcessingError{Path: path, Stage: "image decoding", Err: err}
	}

	out := Normalize(img)
	b := out.Bounds()
	l.logger.Debug("Image loaded",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: "format", Value: format},
		logging.Field{Key: logging.FieldColorModel, Value: modelName(img)},
		logging.Field{Key: logging.FieldWidth, Value: b.Dx()},
		logging.Field{Key: logging.FieldHeight, Value: b.Dy()})
	return out, nil
}

// Normalize returns img as *image.Gray or *image.RGBA. 8-bit gray and RGBA
// images are returned unchanged; 16-bit gray is reduced to 8 bits; every
// other model (paletted, YCbCr, CMYK, alpha, 16-bit color) is composited
// over white, so transparent regions read as paper rather than ink.
func Normalize(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.Gray, *image.RGBA:
		return src
	case *image.Gray16:
		dst := image.NewGray(src.Bounds())
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst
	}

	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}

func modelName(img image.Image) string {
	switch img.(type) {
	case *image.Gray:
		return "gray"
	case *image.Gray16:
		return "gray16"
	case *image.RGBA:
		return "rgba"
	case *image.RGBA64:
		return "rgba64"
	case *image.NRGBA:
		return "nrgba"
	case *image.NRGBA64:
		return "nrgba64"
	case *image.Paletted:
		return "paletted"
	case *image.YCbCr:
		return "ycbcr"
	case *image.CMYK:
		return "cmyk"
	case *image.Alpha, *image.Alpha16:
		return "alpha"
	default:
		return "other"
	}
}
