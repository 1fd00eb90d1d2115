package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/numerador-esportivo/numerador/internal/export"
	"github.com/numerador-esportivo/numerador/internal/labeling"
	"github.com/numerador-esportivo/numerador/internal/storage"
)

type manualResponse struct {
	SessionID string        `json:"session_id"`
	View      labeling.View `json:"view"`
}

// HandleManualUpload starts a manual labeling session for the posted images.
// Uploading into an existing session replaces its previous upload set.
func (h *Handler) HandleManualUpload(w http.ResponseWriter, r *http.Request) {
	items, err := readUploads(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := labeling.NewSession(items)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws := h.sessionStore.GetOrCreate(r.FormValue("session"))
	ws.Lock()
	defer ws.Unlock()
	ws.Manual = session

	slog.Info("Manual session started", "session_id", ws.ID, "images", len(items))
	h.writeJSON(w, manualResponse{SessionID: ws.ID, View: session.View()})
}

func (h *Handler) HandleManualView(w http.ResponseWriter, r *http.Request) {
	h.withManual(w, r, func(ws *storage.Workspace) {
		h.writeJSON(w, manualResponse{SessionID: ws.ID, View: ws.Manual.View()})
	})
}

// HandleManualLabel stores a label typed by the client. Clients send it on
// every keystroke, along with the upload index of the image they showed, so a
// late request still lands on that image after the cursor has moved. Without
// an index the image at the cursor is labeled.
func (h *Handler) HandleManualLabel(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Label string `json:"label"`
		Image *int   `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.withManual(w, r, func(ws *storage.Workspace) {
		var err error
		if request.Image != nil {
			err = ws.Manual.EditImage(*request.Image, request.Label)
		} else {
			err = ws.Manual.Edit(request.Label)
		}
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeJSON(w, manualResponse{SessionID: ws.ID, View: ws.Manual.View()})
	})
}

func (h *Handler) HandleManualAction(w http.ResponseWriter, r *http.Request) {
	action := labeling.Action(r.PathValue("action"))

	h.withManual(w, r, func(ws *storage.Workspace) {
		if err := ws.Manual.Apply(action); err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, labeling.ErrUnknownAction) {
				code = http.StatusBadRequest
			}
			h.writeError(w, err.Error(), code)
			return
		}
		slog.Debug("Manual action applied", "session_id", ws.ID, "action", action, "position", ws.Manual.Index())
		h.writeJSON(w, manualResponse{SessionID: ws.ID, View: ws.Manual.View()})
	})
}

func (h *Handler) HandleManualImage(w http.ResponseWriter, r *http.Request) {
	h.withManual(w, r, func(ws *storage.Workspace) {
		h.writeImage(w, r, ws.Manual.Current().Data)
	})
}

// HandleManualExport downloads the labeled rows. When nothing is labeled it
// answers 204 and no file.
func (h *Handler) HandleManualExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.withManual(w, r, func(ws *storage.Workspace) {
		f, ok, err := ws.Manual.Export(format)
		if err != nil {
			h.writeError(w, "Failed to build export: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		slog.Info("Manual export", "session_id", ws.ID, "file", f.Name, "bytes", len(f.Data))
		h.writeFile(w, f)
	})
}

// withManual runs fn with the session's workspace locked, after checking that
// the session exists and has images.
func (h *Handler) withManual(w http.ResponseWriter, r *http.Request, fn func(ws *storage.Workspace)) {
	ws, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	ws.Lock()
	defer ws.Unlock()

	if ws.Manual == nil {
		h.writeError(w, "No images uploaded for manual labeling", http.StatusNotFound)
		return
	}
	fn(ws)
}
