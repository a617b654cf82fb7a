package ocr

import (
	"context"
	"image"
	"sync/atomic"
)

// MockRecognizer implements TextRecognizer for testing purposes.
type MockRecognizer struct {
	// Text is returned for every image unless Fn is set.
	Text string
	Err  error
	// Fn, when set, computes the result per image.
	Fn func(img image.Image) (string, error)

	calls atomic.Int32
}

// NewMockRecognizer returns a MockRecognizer that always yields text.
func NewMockRecognizer(text string) *MockRecognizer {
	return &MockRecognizer{Text: text}
}

func (m *MockRecognizer) Name() string { return "mock" }

func (m *MockRecognizer) Recognize(_ context.Context, img image.Image) (string, error) {
	m.calls.Add(1)
	if m.Fn != nil {
		return m.Fn(img)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

// Calls returns how many images were recognized.
func (m *MockRecognizer) Calls() int {
	return int(m.calls.Load())
}
