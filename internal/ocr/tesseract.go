package ocr

import (
	"context"
	"fmt"
	"image"
	"regexp"
	"strconv"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/runner"
)

var reMissingLanguage = regexp.MustCompile(`Failed loading language '([^']+)'`)

// TesseractRecognizer runs the tesseract CLI, streaming the image through
// stdin and reading the text from stdout.
type TesseractRecognizer struct {
	bin    string
	opts   Options
	runner runner.Runner
	logger logging.Logger
}

// NewTesseractRecognizer creates a TesseractRecognizer. An empty bin uses
// "tesseract" from PATH.
func NewTesseractRecognizer(bin string, opts Options, r runner.Runner, logger logging.Logger) *TesseractRecognizer {
	if bin == "" {
		bin = "tesseract"
	}
	logger = logging.OrDefault(logger)
	if r == nil {
		r = runner.NewExecRunner(logger)
	}
	return &TesseractRecognizer{bin: bin, opts: opts, runner: r, logger: logger}
}

func (t *TesseractRecognizer) Name() string { return "tesseract" }

func (t *TesseractRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	stdout, stderr, err := t.runner.Run(ctx, data, t.bin, t.args()...)
	if err != nil {
		return "", t.classify(stderr, err)
	}
	return string(stdout), nil
}

func (t *TesseractRecognizer) args() []string {
	args := []string{"stdin", "stdout", "-l", t.opts.profile()}
	if t.opts.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.opts.TessdataDir)
	}
	if t.opts.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.opts.PSM))
	}
	if t.opts.OEM >= 0 {
		args = append(args, "--oem", strconv.Itoa(t.opts.OEM))
	}
	return args
}

// classify separates a missing program or language pack from a failed run.
func (t *TesseractRecognizer) classify(stderr []byte, err error) error {
	if runner.IsNotFound(err) {
		return &extracterror.EngineMissingError{
			Engine:  extracterror.EngineOCR,
			Backend: t.bin,
			Remedy:  fmt.Sprintf("Install tesseract-ocr with the %s language data or set ocr.tesseract.", t.opts.profile()),
			Err:     err,
		}
	}
	if m := reMissingLanguage.FindSubmatch(stderr); m != nil {
		return &extracterror.EngineMissingError{
			Engine:  extracterror.EngineOCR,
			Backend: fmt.Sprintf("tesseract language '%s'", m[1]),
			Remedy:  fmt.Sprintf("Install the %s traineddata file or set ocr.tessdata_dir.", m[1]),
			Err:     err,
		}
	}
	if msg := runner.StderrText(stderr); msg != "" {
		return fmt.Errorf("%s: %w: %s", t.bin, err, msg)
	}
	return fmt.Errorf("%s: %w", t.bin, err)
}
