package extraction

import (
	"time"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/validation"
)

// Method names the stage that produced the returned text.
type Method string

const (
	MethodNone       Method = ""
	MethodDirectText Method = "DIRECT_TEXT"
	MethodOCR        Method = "OCR"
)

// Result is the outcome of one extraction call. Exactly one of Text and Err
// is set: successful text is never empty.
type Result struct {
	Path     string
	Kind     validation.DocumentKind
	Text     string
	Method   Method
	Pages    int
	Backend  string
	Duration time.Duration
	Err      error
	// States is the path taken through the state machine.
	States []State
}

// OK reports whether text was extracted.
func (r Result) OK() bool {
	return r.Err == nil
}

// ErrorKind returns the taxonomy kind of the failure, or KindNone.
func (r Result) ErrorKind() extracterror.Kind {
	return extracterror.KindOf(r.Err)
}

// Message renders the result for the string boundary: the text on success,
// the user message starting with extracterror.Marker on failure.
func (r Result) Message() string {
	if r.Err != nil {
		return extracterror.UserMessage(r.Err)
	}
	return r.Text
}

// Report is the serializable form of a Result.
type Report struct {
	TraceID    string `json:"trace_id,omitempty" yaml:"trace_id,omitempty" csv:"trace_id"`
	Path       string `json:"path" yaml:"path" csv:"path"`
	Kind       string `json:"kind" yaml:"kind" csv:"kind"`
	Method     string `json:"method,omitempty" yaml:"method,omitempty" csv:"method"`
	Text       string `json:"text,omitempty" yaml:"text,omitempty" csv:"text"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty" csv:"error"`
	ErrorKind  string `json:"error_kind,omitempty" yaml:"error_kind,omitempty" csv:"error_kind"`
	Pages      int    `json:"pages,omitempty" yaml:"pages,omitempty" csv:"pages"`
	Backend    string `json:"backend,omitempty" yaml:"backend,omitempty" csv:"backend"`
	DurationMS int64  `json:"duration_ms" yaml:"duration_ms" csv:"duration_ms"`
}

// Report converts r for output.
func (r Result) Report() Report {
	rep := Report{
		Path:       r.Path,
		Kind:       string(r.Kind),
		Method:     string(r.Method),
		Pages:      r.Pages,
		Backend:    r.Backend,
		DurationMS: r.Duration.Milliseconds(),
	}
	if r.Err != nil {
		rep.Error = r.Message()
		rep.ErrorKind = string(r.ErrorKind())
	} else {
		rep.Text = r.Text
	}
	return rep
}
