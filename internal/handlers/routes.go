package handlers

import (
	"log/slog"
	"net/http"
)

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/config", h.HandleConfig)

	mux.HandleFunc("POST /api/manual", h.HandleManualUpload)
	mux.HandleFunc("GET /api/manual/{id}", h.HandleManualView)
	mux.HandleFunc("PUT /api/manual/{id}/label", h.HandleManualLabel)
	mux.HandleFunc("POST /api/manual/{id}/actions/{action}", h.HandleManualAction)
	mux.HandleFunc("GET /api/manual/{id}/image", h.HandleManualImage)
	mux.HandleFunc("GET /api/manual/{id}/export", h.HandleManualExport)

	mux.HandleFunc("POST /api/ocr", h.HandleOCRRun)
	mux.HandleFunc("GET /api/ocr/{id}/export", h.HandleOCRExport)
	mux.HandleFunc("GET /api/ocr/{id}/images/{n}", h.HandleOCRImage)

	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	mux.HandleFunc("GET /", h.HandleStatic)

	return mux
}
