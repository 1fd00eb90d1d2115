package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/numerador-esportivo/numerador/internal/providers"
)

const defaultModel = "mistral-small3.2:24b"

// Ollama is a detector backed by a vision model served by Ollama
type Ollama struct {
	URL        string
	Config     providers.Config
	HTTPClient *http.Client
}

// New returns a new Ollama detector configured from the environment
func New(model string) *Ollama {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = os.Getenv("OLLAMA_HOST")
	}
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	if model == "" {
		model = os.Getenv("OLLAMA_MODEL")
	}
	if model == "" {
		model = defaultModel
	}
	return &Ollama{
		URL: ollamaURL,
		Config: providers.Config{
			Model:       model,
			Temperature: 0.0,
			Prompt:      providers.TranscriptionPrompt,
		},
		HTTPClient: &http.Client{},
	}
}

// DetectText transcribes the text in the image using Ollama
func (o *Ollama) DetectText(ctx context.Context, image []byte) (string, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  o.Config.Model,
		"prompt": o.Config.Prompt,
		"images": []string{base64.StdEncoding.EncodeToString(image)},
		"stream": false,
		"options": map[string]interface{}{
			"temperature": o.Config.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", strings.TrimSuffix(o.URL, "/")+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama API for OCR: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama OCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode Ollama OCR response: %w", err)
	}

	slog.Debug("Detected text", "provider", "ollama", "model", o.Config.Model, "length", len(response.Response))
	return strings.TrimSpace(response.Response), nil
}
