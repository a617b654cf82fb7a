// Package runner executes the native helper programs (poppler, tesseract)
// the extraction backends shell out to.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/gitveg/docextract/internal/logging"
)

// stderrLogLimit caps how much stderr is copied into a log entry.
const stderrLogLimit = 8 << 10

// Runner lets us stub external commands in tests.
type Runner interface {
	// Run executes name with args, feeding stdin when it is non-nil.
	Run(ctx context.Context, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

// Func adapts a plain function to Runner.
type Func func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error)

// Run calls f.
func (f Func) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	return f(ctx, stdin, name, args...)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	logger logging.Logger
}

// NewExecRunner returns an ExecRunner logging through logger, or the default
// logger when logger is nil.
func NewExecRunner(logger logging.Logger) *ExecRunner {
	return &ExecRunner{logger: logging.OrDefault(logger)}
}

func (r *ExecRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	err := cmd.Run()
	dur := time.Since(start)

	log := r.logger.WithFields(
		logging.Field{Key: logging.FieldCommand, Value: name},
		logging.Field{Key: "args", Value: strings.Join(args, " ")},
		logging.Field{Key: logging.FieldDuration, Value: dur.Milliseconds()},
	)
	if err != nil {
		log.WithError(err).Debug("exec failed",
			logging.Field{Key: "stderr", Value: truncate(errb.String(), stderrLogLimit)})
	} else {
		log.Debug("exec ok",
			logging.Field{Key: "stdout_bytes", Value: out.Len()},
			logging.Field{Key: "stderr_bytes", Value: errb.Len()})
	}

	return out.Bytes(), errb.Bytes(), err
}

// IsNotFound reports whether err means the program itself could not be
// located, as opposed to the program running and failing.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	// An explicit path to a missing binary surfaces as a PathError.
	var pathErr *fs.PathError
	return errors.As(err, &pathErr) && errors.Is(pathErr.Err, fs.ErrNotExist)
}

// StderrText returns the first non-empty stderr line, for error messages.
func StderrText(stderr []byte) string {
	for _, line := range strings.Split(string(stderr), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return truncate(line, 512)
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
