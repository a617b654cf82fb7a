package batch

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitveg/docextract/internal/extraction"
)

var sampleReports = []extraction.Report{
	{TraceID: "t-1", Path: "report.pdf", Kind: "pdf", Method: "DIRECT_TEXT", Text: "Invoice Total: 42\n", Pages: 1, DurationMS: 12},
	{Path: "photo.webp", Kind: "image", Error: "Error: Unsupported image format. Supported formats: .png .jpg .jpeg .bmp .gif .tiff", ErrorKind: "UNSUPPORTED_FORMAT"},
	{Path: "receipt.png", Kind: "image", Method: "OCR", Text: "合计 <42>\n", Backend: "tesseract", Pages: 1},
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, sampleReports))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for i, line := range lines {
		var got extraction.Report
		require.NoError(t, json.Unmarshal([]byte(line), &got))
		assert.Equal(t, sampleReports[i], got)
	}
	assert.Contains(t, lines[2], "合计 <42>")
	assert.NotContains(t, lines[1], "trace_id")
	assert.NotContains(t, lines[1], `"text"`)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReports))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"trace_id", "path", "kind", "method", "text", "error", "error_kind", "pages", "backend", "duration_ms"}, rows[0])
	assert.Equal(t, "Invoice Total: 42\n", rows[1][4])
	assert.Equal(t, "UNSUPPORTED_FORMAT", rows[2][6])
	assert.Equal(t, "tesseract", rows[3][8])
}

func TestWrite_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "", sampleReports[:1]))
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	buf.Reset()
	require.NoError(t, Write(&buf, FormatCSV, sampleReports[:1]))
	assert.True(t, strings.HasPrefix(buf.String(), "trace_id,"))

	assert.ErrorContains(t, Write(&buf, "xml", sampleReports), "unsupported output format")
}
