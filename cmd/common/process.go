// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gitveg/docextract/internal/extraction"
	"github.com/gitveg/docextract/internal/fileutils"
	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/validation"
)

// ErrExtractionFailed is returned after a failure message has been printed,
// so the process can exit non-zero without printing it twice.
var ErrExtractionFailed = errors.New("extraction failed")

// Extractor is the part of *extraction.Coordinator the commands use.
type Extractor interface {
	Extract(ctx context.Context, path string, kind validation.DocumentKind) extraction.Result
}

// ProcessFile extracts inputFile and prints the result to out, or writes it
// to outputFile when one is given. Failure messages always go to out.
func ProcessFile(ctx context.Context, x Extractor, kind validation.DocumentKind, inputFile, outputFile string, asJSON bool, out io.Writer, log logging.Logger) error {
	if inputFile == "" {
		return fmt.Errorf("input file is required (-i)")
	}

	res := x.Extract(ctx, inputFile, kind)

	var payload []byte
	if asJSON {
		data, err := json.MarshalIndent(res.Report(), "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding result: %w", err)
		}
		payload = append(data, '\n')
	} else {
		payload = []byte(res.Message())
	}

	if res.OK() && outputFile != "" {
		if err := fileutils.WriteFile(outputFile, payload); err != nil {
			return fmt.Errorf("error writing output file: %w", err)
		}
		log.Info("Extraction written",
			logging.Field{Key: logging.FieldFile, Value: inputFile},
			logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
			logging.Field{Key: logging.FieldMethod, Value: res.Method})
		return nil
	}

	if _, err := out.Write(payload); err != nil {
		return err
	}
	if !asJSON && len(payload) > 0 && payload[len(payload)-1] != '\n' {
		_, _ = io.WriteString(out, "\n")
	}
	if !res.OK() {
		return ErrExtractionFailed
	}
	return nil
}
