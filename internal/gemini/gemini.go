package gemini

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/numerador-esportivo/numerador/internal/providers"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// Gemini is a detector backed by a Google Gemini multimodal model
type Gemini struct {
	APIKey string
	Config providers.Config
}

// New returns a new Gemini detector configured from the environment
func New(model string) *Gemini {
	if model == "" {
		model = os.Getenv("GEMINI_MODEL")
	}
	if model == "" {
		model = defaultModel
	}
	return &Gemini{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Config: providers.Config{
			Model:       model,
			Temperature: 0.0,
			Prompt:      providers.TranscriptionPrompt,
		},
	}
}

// DetectText transcribes the text in the image using Gemini
func (g *Gemini) DetectText(ctx context.Context, image []byte) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.Config.Model)
	model.SetTemperature(float32(g.Config.Temperature))

	resp, err := model.GenerateContent(ctx, genai.ImageData(imageFormat(image), image), genai.Text(g.Config.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", nil
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return strings.TrimSpace(string(txt)), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}

// imageFormat returns the short format name ("jpeg", "png") genai expects.
func imageFormat(image []byte) string {
	ct := http.DetectContentType(image)
	if format, ok := strings.CutPrefix(ct, "image/"); ok {
		return format
	}
	return "jpeg"
}
