// Package raster renders PDF pages to in-memory images for OCR.
package raster

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/runner"
)

const popplerRemedy = "Install poppler-utils (pdftoppm and pdfinfo) or point pdf.pdftoppm and pdf.pdfinfo at the binaries."

// PageRenderer turns PDF pages into images. Pages are numbered from 1.
type PageRenderer interface {
	// Pages returns how many pages RenderPage will be asked for.
	Pages(ctx context.Context, path string) (int, error)
	RenderPage(ctx context.Context, path string, page int) (image.Image, error)
}

// Options configures the poppler backend.
type Options struct {
	Pdftoppm string
	Pdfinfo  string
	DPI      int
	// MaxPages bounds the number of rendered pages; 0 renders all of them.
	MaxPages int
}

// PopplerRenderer renders pages with poppler's pdftoppm, reading the PNG from
// stdout so nothing is written to disk.
type PopplerRenderer struct {
	opts   Options
	runner runner.Runner
	logger logging.Logger
}

// NewPopplerRenderer creates a PopplerRenderer. Zero-valued options fall back
// to the binaries on PATH at 300 DPI.
func NewPopplerRenderer(opts Options, r runner.Runner, logger logging.Logger) *PopplerRenderer {
	if opts.Pdftoppm == "" {
		opts.Pdftoppm = "pdftoppm"
	}
	if opts.Pdfinfo == "" {
		opts.Pdfinfo = "pdfinfo"
	}
	if opts.DPI <= 0 {
		opts.DPI = 300
	}
	logger = logging.OrDefault(logger)
	if r == nil {
		r = runner.NewExecRunner(logger)
	}
	return &PopplerRenderer{opts: opts, runner: r, logger: logger}
}

// Pages reads the page count from pdfinfo and applies MaxPages.
func (p *PopplerRenderer) Pages(ctx context.Context, path string) (int, error) {
	stdout, stderr, err := p.runner.Run(ctx, nil, p.opts.Pdfinfo, path)
	if err != nil {
		return 0, p.commandError(path, p.opts.Pdfinfo, stderr, err)
	}

	n, err := parsePageCount(stdout)
	if err != nil {
		return 0, &extracterror.ProcessingError{Path: path, Stage: "rasterization", Err: err}
	}

	if p.opts.MaxPages > 0 && n > p.opts.MaxPages {
		p.logger.Warn("Page limit reached, remaining pages are not rendered",
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldPages, Value: n},
			logging.Field{Key: "max_pages", Value: p.opts.MaxPages})
		n = p.opts.MaxPages
	}
	return n, nil
}

// RenderPage renders a single page as PNG and decodes it.
func (p *PopplerRenderer) RenderPage(ctx context.Context, path string, page int) (image.Image, error) {
	n := strconv.Itoa(page)
	args := []string{"-f", n, "-l", n, "-r", strconv.Itoa(p.opts.DPI), "-png", path}

	stdout, stderr, err := p.runner.Run(ctx, nil, p.opts.Pdftoppm, args...)
	if err != nil {
		return nil, p.commandError(path, p.opts.Pdftoppm, stderr, err)
	}
	if len(stdout) == 0 {
		return nil, &extracterror.ProcessingError{
			Path:  path,
			Stage: "rasterization",
			Err:   fmt.Errorf("page %d: %s produced no image", page, p.opts.Pdftoppm),
		}
	}

	img, err := png.Decode(bytes.NewReader(stdout))
	if err != nil {
		return nil, &extracterror.ProcessingError{
			Path:  path,
			Stage: "rasterization",
			Err:   fmt.Errorf("page %d: decode rendered page: %w", page, err),
		}
	}

	b := img.Bounds()
	p.logger.Debug("Rendered page",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldPage, Value: page},
		logging.Field{Key: logging.FieldWidth, Value: b.Dx()},
		logging.Field{Key: logging.FieldHeight, Value: b.Dy()})
	return img, nil
}

func (p *PopplerRenderer) commandError(path, bin string, stderr []byte, err error) error {
	if runner.IsNotFound(err) {
		return &extracterror.EngineMissingError{
			Engine:  extracterror.EngineRasterizer,
			Backend: bin,
			Remedy:  popplerRemedy,
			Err:     err,
		}
	}
	if msg := runner.StderrText(stderr); msg != "" {
		err = fmt.Errorf("%s: %w: %s", bin, err, msg)
	} else {
		err = fmt.Errorf("%s: %w", bin, err)
	}
	return &extracterror.ProcessingError{Path: path, Stage: "rasterization", Err: err}
}

// parsePageCount finds the "Pages:" line of pdfinfo output.
func parsePageCount(out []byte) (int, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Pages" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("invalid page count %q", strings.TrimSpace(value))
		}
		if n < 0 {
			return 0, fmt.Errorf("invalid page count %d", n)
		}
		return n, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, errors.New("pdfinfo output has no page count")
}
