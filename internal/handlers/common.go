package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/numerador-esportivo/numerador/internal/credentials"
	"github.com/numerador-esportivo/numerador/internal/export"
	"github.com/numerador-esportivo/numerador/internal/ocr"
	"github.com/numerador-esportivo/numerador/internal/providers"
	"github.com/numerador-esportivo/numerador/internal/storage"
)

// Options configures a Handler.
type Options struct {
	Provider    string
	Model       string
	Concurrency int
	Credentials *credentials.Resolver
	// Detector overrides provider selection when set.
	Detector providers.Detector
}

type Handler struct {
	sessionStore *storage.SessionStore
	opts         Options

	detectorOnce sync.Once
	detector     providers.Detector
	detectorErr  error
}

func New(opts Options) *Handler {
	if opts.Provider == "" {
		opts.Provider = ocr.DefaultProvider()
	}
	if opts.Credentials == nil {
		opts.Credentials = credentials.NewResolver()
	}
	return &Handler{
		sessionStore: storage.New(),
		opts:         opts,
	}
}

// ocrService builds the detector on first use; a configuration failure is
// remembered for the lifetime of the process.
func (h *Handler) ocrService() (*ocr.Service, error) {
	h.detectorOnce.Do(func() {
		if h.opts.Detector != nil {
			h.detector = h.opts.Detector
			return
		}
		h.detector, h.detectorErr = ocr.NewDetector(h.opts.Provider, h.opts.Model, h.opts.Credentials)
	})
	if h.detectorErr != nil {
		return nil, h.detectorErr
	}
	svc := ocr.NewService(h.detector)
	if h.opts.Concurrency > 1 {
		svc.Concurrency = h.opts.Concurrency
	}
	return svc, nil
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	level := slog.LevelError
	if code < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, message, "status", code)
	http.Error(w, message, code)
}

func (h *Handler) writeFile(w http.ResponseWriter, f export.File) {
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	if _, err := w.Write(f.Data); err != nil {
		slog.Error("Unable to write export", "file", f.Name, "err", err)
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*storage.Workspace, bool) {
	ws, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return ws, true
}
