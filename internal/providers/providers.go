package providers

import (
	"context"
)

// Config represents the configuration for an LLM-backed detector
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Detector recognizes the text printed in an image. An empty string with a nil
// error means the image contains no recognizable text.
type Detector interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, image []byte) (string, error)

func (f DetectorFunc) DetectText(ctx context.Context, image []byte) (string, error) {
	return f(ctx, image)
}

// TranscriptionPrompt asks a vision model for a verbatim transcription of the
// text visible in a race photograph.
const TranscriptionPrompt = `You are performing OCR (Optical Character Recognition) on a photograph taken at a sports event.

Transcribe ALL visible text exactly as it appears, including race bib numbers, sponsor names and signs.

INSTRUCTIONS:
1. Read the image from top to bottom, left to right
2. Preserve digits exactly, including leading zeros
3. Put each separate piece of text on its own line
4. Do not add any interpretation, commentary, or explanations

OUTPUT FORMAT:
Provide ONLY the extracted text. If the image contains no text, respond with an empty message.`
