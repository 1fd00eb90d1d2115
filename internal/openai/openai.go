package openai

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

const (
	defaultURL   = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
)

// OpenAI is a detector backed by an OpenAI vision-capable chat model
type OpenAI struct {
	URL        string
	APIKey     string
	Config     providers.Config
	HTTPClient *http.Client
}

// New returns a new OpenAI detector configured from the environment
func New(model string) *OpenAI {
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		model = defaultModel
	}
	return &OpenAI{
		URL:    defaultURL,
		APIKey: os.Getenv("OPENAI_API_KEY"),
		Config: providers.Config{
			Model:       model,
			Temperature: 0.0,
			Prompt:      providers.TranscriptionPrompt,
		},
		HTTPClient: &http.Client{},
	}
}

// DetectText transcribes the text in the image using OpenAI
func (o *OpenAI) DetectText(ctx context.Context, image []byte) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	dataURL := "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": o.Config.Model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": o.Config.Prompt,
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": dataURL,
						},
					},
				},
			},
		},
		"max_tokens":  500,
		"temperature": o.Config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.URL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call OpenAI API for OCR: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openAI OCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode OpenAI OCR response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no OCR response from OpenAI")
	}

	text := strings.TrimSpace(response.Choices[0].Message.Content)
	slog.Debug("Detected text", "provider", "openai", "model", o.Config.Model, "length", len(text))
	return text, nil
}
