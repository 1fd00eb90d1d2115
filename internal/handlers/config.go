package handlers

import (
	"net/http"

	"github.com/numerador-esportivo/numerador/internal/credentials"
	"github.com/numerador-esportivo/numerador/internal/ocr"
)

type configResponse struct {
	Provider         string             `json:"provider"`
	OCREnabled       bool               `json:"ocr_enabled"`
	CredentialSource credentials.Source `json:"credential_source"`
	Error            string             `json:"error,omitempty"`
	Disciplines      []ocr.Discipline   `json:"disciplines"`
}

// HandleConfig reports whether the OCR workflow can run.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	response := configResponse{
		Provider:    h.opts.Provider,
		Disciplines: ocr.Disciplines,
	}

	state, _ := h.opts.Credentials.Resolve()
	response.CredentialSource = state.Source

	if _, err := h.ocrService(); err != nil {
		response.Error = err.Error()
	} else {
		response.OCREnabled = true
	}

	h.writeJSON(w, response)
}
