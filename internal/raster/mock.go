package raster

import (
	"context"
	"fmt"
	"image"
	"sync"
)

// MockRenderer implements PageRenderer for testing purposes.
type MockRenderer struct {
	Images []image.Image
	// PagesErr is returned by Pages; RenderErr by every RenderPage call.
	PagesErr  error
	RenderErr error

	mu       sync.Mutex
	rendered []int
}

// NewMockRenderer returns a MockRenderer serving images as pages 1..n.
func NewMockRenderer(images ...image.Image) *MockRenderer {
	return &MockRenderer{Images: images}
}

func (m *MockRenderer) Pages(_ context.Context, _ string) (int, error) {
	if m.PagesErr != nil {
		return 0, m.PagesErr
	}
	return len(m.Images), nil
}

func (m *MockRenderer) RenderPage(_ context.Context, _ string, page int) (image.Image, error) {
	m.mu.Lock()
	m.rendered = append(m.rendered, page)
	m.mu.Unlock()

	if m.RenderErr != nil {
		return nil, m.RenderErr
	}
	if page < 1 || page > len(m.Images) {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	return m.Images[page-1], nil
}

// Rendered returns the pages requested so far, in call order.
func (m *MockRenderer) Rendered() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.rendered...)
}
