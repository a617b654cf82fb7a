package extraction

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/validation"
)

func TestResult_Report(t *testing.T) {
	ok := Result{
		Path:     "report.pdf",
		Kind:     validation.KindPDF,
		Text:     "Invoice Total: 42\n",
		Method:   MethodDirectText,
		Pages:    1,
		Duration: 1500 * time.Millisecond,
	}
	assert.True(t, ok.OK())
	assert.Equal(t, Report{
		Path:       "report.pdf",
		Kind:       "pdf",
		Method:     "DIRECT_TEXT",
		Text:       "Invoice Total: 42\n",
		Pages:      1,
		DurationMS: 1500,
	}, ok.Report())

	failed := Result{
		Path: "photo.webp",
		Kind: validation.KindImage,
		Err: &extracterror.UnsupportedFormatError{
			Path: "photo.webp", Extension: ".webp", Allowed: validation.ImageExtensions,
		},
	}
	rep := failed.Report()
	assert.False(t, failed.OK())
	assert.Equal(t, "UNSUPPORTED_FORMAT", rep.ErrorKind)
	assert.Equal(t, "Error: Unsupported image format. Supported formats: .png .jpg .jpeg .bmp .gif .tiff", rep.Error)
	assert.Empty(t, rep.Text)
}

func TestResult_MessageForForeignError(t *testing.T) {
	r := Result{Err: errors.New("boom")}
	assert.Equal(t, "Error: boom", r.Message())
	assert.Equal(t, extracterror.KindProcessingFailure, r.ErrorKind())
}
