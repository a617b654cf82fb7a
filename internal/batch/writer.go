package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/gitveg/docextract/internal/extraction"
)

// Report formats accepted by Write.
const (
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Write encodes reports in format.
func Write(w io.Writer, format string, reports []extraction.Report) error {
	switch format {
	case FormatJSONL, "":
		return WriteJSONL(w, reports)
	case FormatCSV:
		return WriteCSV(w, reports)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteJSONL writes one JSON object per line. Non-ASCII text is written as is.
func WriteJSONL(w io.Writer, reports []extraction.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range reports {
		if err := enc.Encode(&reports[i]); err != nil {
			return fmt.Errorf("error writing JSONL record %d: %w", i, err)
		}
	}
	return nil
}

// WriteCSV writes a header row followed by one row per report.
func WriteCSV(w io.Writer, reports []extraction.Report) error {
	csvWriter := csv.NewWriter(w)
	if err := gocsv.MarshalCSV(reports, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}
