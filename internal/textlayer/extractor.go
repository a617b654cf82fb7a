// Package textlayer reads the machine-readable text embedded in PDF pages.
// Failing to read a text layer is never an error here: the Outcome tells the
// caller whether usable text was found, and why not when it was not.
package textlayer

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/gitveg/docextract/internal/logging"
)

// Outcome is the result of a text-layer attempt.
type Outcome struct {
	// Text is the per-page text in page order, each non-empty page followed by "\n".
	Text string
	// Pages is the page count when the container could be opened.
	Pages int
	// Found is true when Text holds more than whitespace.
	Found bool
	// Reason explains a miss: the open error, a recovered panic, or "no text layer".
	Reason string
}

// Extractor defines the interface for reading a PDF text layer.
// This allows tests to substitute canned outcomes for real documents.
type Extractor interface {
	Extract(path string) Outcome
}

// PDFExtractor implements Extractor with github.com/ledongthuc/pdf.
type PDFExtractor struct {
	logger logging.Logger
}

// NewPDFExtractor creates a PDFExtractor.
func NewPDFExtractor(logger logging.Logger) *PDFExtractor {
	return &PDFExtractor{logger: logging.OrDefault(logger)}
}

// Extract opens path and concatenates the text of every page. The parser can
// panic on malformed input; a panic becomes a miss with the panic as Reason.
func (e *PDFExtractor) Extract(path string) (out Outcome) {
	log := e.logger.WithField(logging.FieldFile, path)

	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Reason: fmt.Sprintf("pdf parser panic: %v", r)}
			log.Warn("Recovered from PDF parser panic", logging.Field{Key: "panic", Value: r})
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		log.WithError(err).Debug("Cannot open PDF container")
		return Outcome{Reason: fmt.Sprintf("open pdf: %v", err)}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close PDF file")
		}
	}()

	pages := r.NumPage()
	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		text, err := pageText(r, i)
		if err != nil {
			log.WithError(err).Debug("Skipping page without readable text",
				logging.Field{Key: logging.FieldPage, Value: i})
			continue
		}
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	out = Outcome{Text: sb.String(), Pages: pages}
	if strings.TrimSpace(out.Text) == "" {
		out.Text = ""
		out.Reason = "no text layer"
		return out
	}
	out.Found = true
	log.Debug("Text layer extracted",
		logging.Field{Key: logging.FieldPages, Value: pages},
		logging.Field{Key: logging.FieldBytes, Value: len(out.Text)})
	return out
}

// pageText reads one page; a panic on a single page only loses that page.
func pageText(r *pdf.Reader, i int) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("page %d: parser panic: %v", i, p)
		}
	}()

	page := r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// MockExtractor implements Extractor for testing purposes.
type MockExtractor struct {
	Outcome Outcome
	Calls   []string
}

// NewMockExtractor returns a MockExtractor yielding text. Empty text yields a miss.
func NewMockExtractor(text string) *MockExtractor {
	o := Outcome{Text: text, Pages: 1, Found: strings.TrimSpace(text) != ""}
	if !o.Found {
		o.Reason = "no text layer"
	}
	return &MockExtractor{Outcome: o}
}

// Extract returns the predefined outcome.
func (m *MockExtractor) Extract(path string) Outcome {
	m.Calls = append(m.Calls, path)
	return m.Outcome
}
