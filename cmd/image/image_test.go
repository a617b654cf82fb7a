package image_test

import (
	"bytes"
	"context"
	"encoding/json"
	stdimage "image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitveg/docextract/cmd/common"
	"github.com/gitveg/docextract/cmd/image"
	"github.com/gitveg/docextract/cmd/root"
	"github.com/gitveg/docextract/internal/config"
	"github.com/gitveg/docextract/internal/container"
	"github.com/gitveg/docextract/internal/extraction"
	"github.com/gitveg/docextract/internal/logging"
	"github.com/gitveg/docextract/internal/runner"
)

// fakeTesseract answers every recognition with a fixed text.
func fakeTesseract(text string) runner.Func {
	return func(_ context.Context, stdin []byte, _ string, _ ...string) ([]byte, []byte, error) {
		if len(stdin) == 0 {
			return nil, []byte("no input"), assert.AnError
		}
		return []byte(text), nil, nil
	}
}

func setup(t *testing.T, flags root.CommonFlags, ocrText string) *bytes.Buffer {
	t.Helper()
	c, err := container.NewContainer(context.Background(), config.Default(),
		container.WithLogger(logging.NewMockLogger()),
		container.WithRunner(fakeTesseract(ocrText)))
	require.NoError(t, err)

	origFlags, origContainer := root.SharedFlags, root.AppContainer
	t.Cleanup(func() { root.SharedFlags, root.AppContainer = origFlags, origContainer })
	root.SharedFlags = flags
	root.AppContainer = c
	return &bytes.Buffer{}
}

func run(out *bytes.Buffer) error {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return image.Cmd.RunE(cmd, nil)
}

func writePNG(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, stdimage.NewGray(stdimage.Rect(0, 0, 8, 8))))
	return path
}

func TestImageCommand_Metadata(t *testing.T) {
	assert.Equal(t, "image", image.Cmd.Use)
	assert.Contains(t, image.Cmd.Long, ".png .jpg .jpeg .bmp .gif .tiff")
	assert.NotNil(t, image.Cmd.RunE)
}

func TestImageCommand_Recognizes(t *testing.T) {
	out := setup(t, root.CommonFlags{Input: writePNG(t, "receipt.png")}, "合计 42\n")

	require.NoError(t, run(out))
	assert.Equal(t, "合计 42\n", out.String())
}

func TestImageCommand_JSON(t *testing.T) {
	path := writePNG(t, "receipt.png")
	out := setup(t, root.CommonFlags{Input: path, JSON: true}, "Hello")

	require.NoError(t, run(out))
	var rep extraction.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, "OCR", rep.Method)
	assert.Equal(t, "Hello", rep.Text)
	assert.Equal(t, "tesseract", rep.Backend)
}

func TestImageCommand_Unsupported(t *testing.T) {
	out := setup(t, root.CommonFlags{Input: "photo.webp"}, "Hello")

	err := run(out)
	assert.ErrorIs(t, err, common.ErrExtractionFailed)
	assert.Equal(t, "Error: Unsupported image format. Supported formats: .png .jpg .jpeg .bmp .gif .tiff\n", out.String())
}

func TestImageCommand_BlankImage(t *testing.T) {
	out := setup(t, root.CommonFlags{Input: writePNG(t, "blank.png")}, "  \n")

	err := run(out)
	assert.ErrorIs(t, err, common.ErrExtractionFailed)
	assert.Contains(t, out.String(), "no text could be extracted")
}
