// Package extracterror defines the failure taxonomy of the extraction pipeline.
// Every failure the pipeline can report is one of five kinds; each kind has its
// own error type so callers can use errors.As, and every type renders an
// actionable message for end users.
package extracterror

import (
	"errors"
	"fmt"
	"strings"
)

// Marker prefixes every user-facing failure message. Callers of the string
// boundary treat any result starting with it as a failure.
const Marker = "Error:"

// Kind tags an extraction failure.
type Kind string

const (
	KindNone              Kind = ""
	KindNotFound          Kind = "NOT_FOUND"
	KindUnsupportedFormat Kind = "UNSUPPORTED_FORMAT"
	KindEngineMissing     Kind = "ENGINE_MISSING"
	KindEmptyResult       Kind = "EMPTY_RESULT"
	KindProcessingFailure Kind = "PROCESSING_FAILURE"
)

// Engine names the external capability an EngineMissingError refers to.
type Engine string

const (
	EngineRasterizer Engine = "rasterizer"
	EngineOCR        Engine = "ocr"
)

// capability is the operator-facing name of an engine.
func (e Engine) capability() string {
	switch e {
	case EngineRasterizer:
		return "PDF page-rendering backend"
	case EngineOCR:
		return "OCR recognition backend"
	default:
		return string(e) + " backend"
	}
}

// ExtractionError is implemented by every error in this package.
type ExtractionError interface {
	error
	Kind() Kind
	// UserMessage renders the failure for an end user, starting with Marker.
	UserMessage() string
}

// NotFoundError reports a path that does not resolve to a file.
type NotFoundError struct {
	Path     string
	Document string // "PDF" or "Image"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *NotFoundError) Kind() Kind { return KindNotFound }

func (e *NotFoundError) UserMessage() string {
	doc := e.Document
	if doc == "" {
		doc = "Input"
	}
	return fmt.Sprintf("%s %s file '%s' does not exist.", Marker, doc, e.Path)
}

// UnsupportedFormatError reports an extension outside the allow-list.
type UnsupportedFormatError struct {
	Path      string
	Extension string
	Allowed   []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q for %s (allowed: %s)",
		e.Extension, e.Path, strings.Join(e.Allowed, " "))
}

func (e *UnsupportedFormatError) Kind() Kind { return KindUnsupportedFormat }

func (e *UnsupportedFormatError) UserMessage() string {
	return fmt.Sprintf("%s Unsupported image format. Supported formats: %s",
		Marker, strings.Join(e.Allowed, " "))
}

// EngineMissingError reports an absent or unreachable native backend.
type EngineMissingError struct {
	Engine Engine
	// Backend is the concrete tool or service, e.g. "pdftoppm" or "tesseract".
	Backend string
	// Remedy tells the operator how to make the backend available.
	Remedy string
	Err    error
}

func (e *EngineMissingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s engine %s unavailable: %v", e.Engine, e.Backend, e.Err)
	}
	return fmt.Sprintf("%s engine %s unavailable", e.Engine, e.Backend)
}

func (e *EngineMissingError) Unwrap() error { return e.Err }

func (e *EngineMissingError) Kind() Kind { return KindEngineMissing }

func (e *EngineMissingError) UserMessage() string {
	msg := fmt.Sprintf("%s %s (%s) is not available.", Marker, e.Engine.capability(), e.Backend)
	if e.Remedy != "" {
		msg += " " + e.Remedy
	}
	return msg
}

// EmptyResultError reports that every strategy ran but produced no text.
type EmptyResultError struct {
	Path string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no text extracted from %s", e.Path)
}

func (e *EmptyResultError) Kind() Kind { return KindEmptyResult }

func (e *EmptyResultError) UserMessage() string {
	return fmt.Sprintf("%s OCR completed but no text could be extracted from '%s' (the input may be blank or of low quality).",
		Marker, e.Path)
}

// ProcessingError reports a decode, parse, or recognition failure with its cause.
type ProcessingError struct {
	Path  string
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

func (e *ProcessingError) Kind() Kind { return KindProcessingFailure }

func (e *ProcessingError) UserMessage() string {
	return fmt.Sprintf("%s failed to process '%s' during %s: %v", Marker, e.Path, e.Stage, e.Err)
}

// KindOf returns the taxonomy kind of err. Errors outside the taxonomy are
// processing failures; nil has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var xe ExtractionError
	if errors.As(err, &xe) {
		return xe.Kind()
	}
	return KindProcessingFailure
}

// UserMessage renders any error for the string boundary.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var xe ExtractionError
	if errors.As(err, &xe) {
		return xe.UserMessage()
	}
	return fmt.Sprintf("%s %v", Marker, err)
}

// IsFailure reports whether a boundary string carries the failure marker.
func IsFailure(s string) bool {
	return strings.HasPrefix(s, Marker)
}
