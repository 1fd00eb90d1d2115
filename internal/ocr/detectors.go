package ocr

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/numerador-esportivo/numerador/internal/credentials"
	"github.com/numerador-esportivo/numerador/internal/gemini"
	"github.com/numerador-esportivo/numerador/internal/ollama"
	"github.com/numerador-esportivo/numerador/internal/openai"
	"github.com/numerador-esportivo/numerador/internal/providers"
	"github.com/numerador-esportivo/numerador/internal/tesseract"
	"github.com/numerador-esportivo/numerador/internal/vision"
)

const (
	ProviderVision    = "vision"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderTesseract = "tesseract"
)

// ErrDisabled is returned when the selected provider needs the Google Cloud
// credential and none could be resolved.
var ErrDisabled = errors.New("OCR is disabled")

// DefaultProvider reads NUMERADOR_OCR_PROVIDER, defaulting to Cloud Vision.
func DefaultProvider() string {
	if p := os.Getenv("NUMERADOR_OCR_PROVIDER"); p != "" {
		return p
	}
	return ProviderVision
}

// NewDetector builds the detector for provider. creds is only consulted by
// providers that authenticate with the Google Cloud credential.
func NewDetector(provider, model string, creds *credentials.Resolver) (providers.Detector, error) {
	if provider == "" {
		provider = DefaultProvider()
	}

	switch strings.ToLower(provider) {
	case ProviderVision:
		state, err := creds.Resolve()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDisabled, err)
		}
		return vision.New(state.Path), nil
	case ProviderGemini:
		return gemini.New(model), nil
	case ProviderOllama:
		return ollama.New(model), nil
	case ProviderOpenAI:
		return openai.New(model), nil
	case ProviderTesseract:
		return tesseract.New(model), nil
	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", provider)
	}
}
