// Package batch handles batch extraction over a manifest
package batch

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gitveg/docextract/cmd/root"
	"github.com/gitveg/docextract/internal/batch"
	"github.com/gitveg/docextract/internal/fileutils"
	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/scanner"
	"github.com/gitveg/docextract/internal/validation"
)

var (
	dataFile      string
	scanDirs      []string
	format        string
	workers       int
	returnTraceID bool
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract text from every document listed in a manifest",
	Long: `Extract text from every document listed in a manifest and write one record
per entry, in manifest order.

The manifest is a .jsonl, .json or .yaml file of {"path", "kind"} entries;
kind is "pdf" or "image" and is inferred from the extension when omitted.
Instead of a manifest, --dir collects every PDF and supported image under a
directory. Failed entries are reported in their record and do not stop the
batch.

Example:
  docextract batch --data manifest.jsonl -o results.jsonl
  docextract batch --data manifest.yaml --format csv --return-trace-id
  docextract batch --dir scans/ -o results.jsonl`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVar(&dataFile, "data", "", "Manifest file (.jsonl, .json, .yaml)")
	Cmd.Flags().StringSliceVar(&scanDirs, "dir", nil, "Directories to scan instead of a manifest")
	Cmd.Flags().StringVar(&format, "format", batch.FormatJSONL, "Report format (jsonl, csv)")
	Cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent extractions (default batch.workers)")
	Cmd.Flags().BoolVar(&returnTraceID, "return-trace-id", false, "Add a trace_id to every record")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}
	entries, err := loadEntries()
	if err != nil {
		return err
	}

	appContainer, err := root.GetContainer(cmd.Context())
	if err != nil {
		return err
	}

	n := workers
	if n <= 0 {
		n = appContainer.GetConfig().Batch.Workers
	}
	logger := root.GetLogger()
	logger.Info("Batch command called",
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
		logging.Field{Key: logging.FieldWorkers, Value: n})

	processor := batch.NewProcessor(appContainer.GetCoordinator(), batch.Options{
		Workers:  n,
		TraceIDs: returnTraceID,
	}, logger)
	reports := processor.Run(cmd.Context(), entries)

	var out io.Writer = cmd.OutOrStdout()
	if output := root.SharedFlags.Output; output != "" {
		f, err := fileutils.CreateFile(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := batch.Write(out, format, reports); err != nil {
		return err
	}

	if output := root.SharedFlags.Output; output != "" {
		logger.Info("Batch report written",
			logging.Field{Key: logging.FieldOutputFile, Value: output},
			logging.Field{Key: logging.FieldCount, Value: len(reports)})
	}
	return nil
}

// loadEntries reads the manifest, or scans the --dir directories.
func loadEntries() ([]batch.Entry, error) {
	switch {
	case dataFile != "" && len(scanDirs) > 0:
		return nil, fmt.Errorf("--data and --dir are mutually exclusive")
	case dataFile != "":
		return batch.LoadManifest(dataFile)
	case len(scanDirs) > 0:
		paths, err := scanner.NewDocumentScanner(root.GetLogger()).ScanPaths(scanDirs)
		if err != nil {
			return nil, err
		}
		entries := make([]batch.Entry, 0, len(paths))
		for _, p := range paths {
			entries = append(entries, batch.Entry{Path: p})
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("manifest is required (--data or --dir)")
	}
}
