package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/logging"
)

type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.parts = parts
	return f.resp, f.err
}

func response(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGeminiRecognizer_Recognize(t *testing.T) {
	gen := &fakeGenerator{resp: response(genai.Text("发票 "), genai.Text("Invoice Total: 42\n"))}
	g := newGeminiRecognizer(gen, "gemini-2.0-flash", Options{}, logging.NewMockLogger())

	text, err := g.Recognize(context.Background(), textImage("Invoice"))
	require.NoError(t, err)
	assert.Equal(t, "发票 Invoice Total: 42\n", text)
	assert.Equal(t, "gemini", g.Name())

	require.Len(t, gen.parts, 2)
	blob, ok := gen.parts[0].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", blob.MIMEType)
	prompt, ok := gen.parts[1].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(prompt), "Simplified Chinese and English")
}

func TestGeminiRecognizer_NoCandidates(t *testing.T) {
	g := newGeminiRecognizer(&fakeGenerator{resp: &genai.GenerateContentResponse{}}, "m", Options{}, logging.NewMockLogger())

	text, err := g.Recognize(context.Background(), textImage("x"))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGeminiRecognizer_APIError(t *testing.T) {
	g := newGeminiRecognizer(&fakeGenerator{err: errors.New("quota exceeded")}, "m", Options{}, logging.NewMockLogger())

	_, err := g.Recognize(context.Background(), textImage("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNewGeminiRecognizer_MissingKey(t *testing.T) {
	_, err := NewGeminiRecognizer(context.Background(), "", "gemini-2.0-flash", Options{}, nil)

	var missing *extracterror.EngineMissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, extracterror.EngineOCR, missing.Engine)
	assert.Contains(t, missing.UserMessage(), "GEMINI_API_KEY")
}

func TestGeminiRecognizer_CloseWithoutClient(t *testing.T) {
	g := newGeminiRecognizer(&fakeGenerator{}, "m", Options{}, nil)
	assert.NoError(t, g.Close())
}

func TestDescribeLanguages(t *testing.T) {
	assert.Equal(t, "English", describeLanguages([]string{"eng"}))
	assert.Equal(t, "Simplified Chinese and English", describeLanguages([]string{"chi_sim", "eng"}))
	assert.Equal(t, "Japanese, vie and English", describeLanguages([]string{"jpn", "vie", "eng"}))
}
