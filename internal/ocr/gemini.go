package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/gitveg/docextract/internal/extracterror"
	"github.com/gitveg/docextract/internal/logging"
)

const geminiPrompt = `Transcribe every piece of text visible in this image, in reading order.
The text may mix %s. Keep the original line breaks.
Output only the transcribed text, without commentary or formatting.
If the image contains no text, output nothing.`

// languageNames maps tesseract codes to names a language model understands.
var languageNames = map[string]string{
	"chi_sim": "Simplified Chinese",
	"chi_tra": "Traditional Chinese",
	"eng":     "English",
	"jpn":     "Japanese",
	"kor":     "Korean",
	"fra":     "French",
	"deu":     "German",
}

// contentGenerator is the part of *genai.GenerativeModel the recognizer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiRecognizer transcribes images with a Gemini vision model.
type GeminiRecognizer struct {
	client *genai.Client
	model  contentGenerator
	name   string
	prompt string
	logger logging.Logger
}

// NewGeminiRecognizer connects to the Gemini API. A missing key is reported
// as a missing recognition backend.
func NewGeminiRecognizer(ctx context.Context, apiKey, model string, opts Options, logger logging.Logger) (*GeminiRecognizer, error) {
	if apiKey == "" {
		return nil, &extracterror.EngineMissingError{
			Engine:  extracterror.EngineOCR,
			Backend: "gemini",
			Remedy:  "Set GEMINI_API_KEY.",
		}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &extracterror.EngineMissingError{
			Engine:  extracterror.EngineOCR,
			Backend: "gemini",
			Remedy:  "Check GEMINI_API_KEY and network access.",
			Err:     err,
		}
	}

	g := newGeminiRecognizer(client.GenerativeModel(model), model, opts, logger)
	g.client = client
	return g, nil
}

func newGeminiRecognizer(model contentGenerator, name string, opts Options, logger logging.Logger) *GeminiRecognizer {
	return &GeminiRecognizer{
		model:  model,
		name:   name,
		prompt: fmt.Sprintf(geminiPrompt, describeLanguages(opts.languages())),
		logger: logging.OrDefault(logger),
	}
}

func (g *GeminiRecognizer) Name() string { return "gemini" }

func (g *GeminiRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.ImageData("png", data), genai.Text(g.prompt))
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", g.name, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		g.logger.Debug("Gemini returned no candidates", logging.Field{Key: logging.FieldBackend, Value: g.name})
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Close releases the API client.
func (g *GeminiRecognizer) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func describeLanguages(codes []string) string {
	names := make([]string, len(codes))
	for i, code := range codes {
		if name, ok := languageNames[code]; ok {
			names[i] = name
		} else {
			names[i] = code
		}
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
