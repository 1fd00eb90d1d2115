package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/numerador-esportivo/numerador/internal/images"
)

// writeImage serves image bytes, scaled down when a ?width= is given.
func (h *Handler) writeImage(w http.ResponseWriter, r *http.Request, data []byte) {
	width := 0
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, "Invalid width", http.StatusBadRequest)
			return
		}
		width = n
	}

	body, contentType := data, http.DetectContentType(data)
	if width > 0 {
		preview, ct, err := images.Preview(data, width)
		if err != nil {
			slog.Warn("Failed to build preview, serving original", "err", err)
		} else {
			body, contentType = preview, ct
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(body); err != nil {
		slog.Error("Unable to write image", "err", err)
	}
}
