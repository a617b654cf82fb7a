// Package validation checks extraction inputs before any decoding work starts.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gitveg/docextract/internal/extracterror"
)

// DocumentKind selects the validation rules for a path.
type DocumentKind string

const (
	KindPDF   DocumentKind = "pdf"
	KindImage DocumentKind = "image"
)

// ImageExtensions is the image allow-list, in the order it is reported to users.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tiff"}

// ParseKind maps a user-supplied kind name to a DocumentKind.
func ParseKind(s string) (DocumentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return KindPDF, nil
	case "image", "img":
		return KindImage, nil
	default:
		return "", fmt.Errorf("unknown document kind: %q (must be 'pdf' or 'image')", s)
	}
}

// KindFromPath infers the document kind from the file extension. Anything
// that is not a .pdf is treated as an image so the image allow-list reports it.
func KindFromPath(path string) DocumentKind {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return KindPDF
	}
	return KindImage
}

// IsSupportedImage reports whether path carries an allowed image extension.
// The comparison is case-insensitive.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range ImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Validate applies the rules for kind to path.
func Validate(path string, kind DocumentKind) error {
	switch kind {
	case KindPDF:
		return ValidatePDF(path)
	case KindImage:
		return ValidateImage(path)
	default:
		return fmt.Errorf("unknown document kind: %q", kind)
	}
}

// ValidatePDF only requires the path to exist. Any extension is accepted;
// whether the container parses is decided later.
func ValidatePDF(path string) error {
	return checkExists(path, "PDF")
}

// ValidateImage checks the extension against ImageExtensions first, then
// existence, so an unsupported extension is reported the same way whether or
// not the file is present.
func ValidateImage(path string) error {
	if !IsSupportedImage(path) {
		return &extracterror.UnsupportedFormatError{
			Path:      path,
			Extension: strings.ToLower(filepath.Ext(path)),
			Allowed:   ImageExtensions,
		}
	}
	return checkExists(path, "Image")
}

func checkExists(path, document string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &extracterror.NotFoundError{Path: path, Document: document}
	}
	if err != nil {
		return &extracterror.ProcessingError{Path: path, Stage: "file access", Err: err}
	}
	if info.IsDir() {
		return &extracterror.NotFoundError{Path: path, Document: document}
	}
	return nil
}

// IsValidOutputFormat checks if the given batch report format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case "jsonl", "csv":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'jsonl', 'csv'", format)
	}
}
