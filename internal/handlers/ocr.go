package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/numerador-esportivo/numerador/internal/export"
	"github.com/numerador-esportivo/numerador/internal/models"
	"github.com/numerador-esportivo/numerador/internal/ocr"
	"github.com/numerador-esportivo/numerador/internal/storage"
)

const credentialsHint = "check the OCR credentials"

// ndjsonContentType selects the streaming variant of the OCR run.
const ndjsonContentType = "application/x-ndjson"

type ocrRow struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Caption string `json:"caption"`
}

func newOCRRow(index int, row models.Row) ocrRow {
	return ocrRow{
		Index:   index,
		Name:    row.Name,
		Value:   row.Value,
		Caption: "OCR: " + row.Line(),
	}
}

type ocrResponse struct {
	SessionID  string   `json:"session_id"`
	Discipline string   `json:"discipline"`
	Total      int      `json:"total"`
	Rows       []ocrRow `json:"rows"`
	Progress   string   `json:"progress"`
	Exportable bool     `json:"exportable"`
	Error      string   `json:"error,omitempty"`
	Hint       string   `json:"hint,omitempty"`
}

// Stream event types, in the order a run emits them.
const (
	eventStart    = "start"
	eventProgress = "progress"
	eventRow      = "row"
	eventDone     = "done"
)

// ocrEvent is one line of a streamed run.
type ocrEvent struct {
	Type       string  `json:"type"`
	SessionID  string  `json:"session_id,omitempty"`
	Discipline string  `json:"discipline,omitempty"`
	Done       int     `json:"done"`
	Total      int     `json:"total"`
	Row        *ocrRow `json:"row,omitempty"`
	Progress   string  `json:"progress,omitempty"`
	Exportable bool    `json:"exportable"`
	Error      string  `json:"error,omitempty"`
	Hint       string  `json:"hint,omitempty"`
}

// HandleOCRRun recognizes the posted images and keeps the result in the
// session for export. Clients accepting application/x-ndjson get one event
// per image as the run advances; others get a single JSON document at the end.
func (h *Handler) HandleOCRRun(w http.ResponseWriter, r *http.Request) {
	svc, err := h.ocrService()
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ocr.ErrDisabled) {
			code = http.StatusServiceUnavailable
		}
		slog.Error("OCR unavailable", "err", err)
		h.writeJSONStatus(w, code, ocrResponse{Error: err.Error(), Hint: credentialsHint})
		return
	}

	items, err := readUploads(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	discipline := ocr.ParseDiscipline(r.FormValue("discipline"))
	ws := h.sessionStore.GetOrCreate(r.FormValue("session"))

	if strings.Contains(r.Header.Get("Accept"), ndjsonContentType) {
		h.streamOCR(w, r, svc, ws, items, discipline)
		return
	}

	result := h.runOCR(r.Context(), svc, ws, items, discipline, nil)

	response := ocrResponse{
		SessionID:  ws.ID,
		Discipline: string(discipline),
		Total:      len(items),
		Rows:       make([]ocrRow, 0, len(result.Rows)),
		Progress:   result.Progress,
		Exportable: result.Exportable(),
	}
	for i, row := range result.Rows {
		response.Rows = append(response.Rows, newOCRRow(i, row))
	}

	if result.Err != nil {
		response.Error = result.Err.Error()
		response.Hint = credentialsHint
		h.writeJSONStatus(w, http.StatusBadGateway, response)
		return
	}
	h.writeJSON(w, response)
}

// streamOCR writes the run as newline-delimited JSON, flushing after every
// event. The status is committed before the first image, so a vendor failure
// is reported in the final event rather than as a status code.
func (h *Handler) streamOCR(w http.ResponseWriter, r *http.Request, svc *ocr.Service, ws *storage.Workspace, items []models.ImageItem, discipline ocr.Discipline) {
	w.Header().Set("Content-Type", ndjsonContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	send := func(ev ocrEvent) {
		if err := enc.Encode(ev); err != nil {
			slog.Warn("Unable to stream OCR event", "session_id", ws.ID, "type", ev.Type, "err", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	send(ocrEvent{Type: eventStart, SessionID: ws.ID, Discipline: string(discipline), Total: len(items)})

	result := h.runOCR(r.Context(), svc, ws, items, discipline, func(p ocr.Progress) {
		ev := ocrEvent{Type: eventProgress, Done: p.Done, Total: p.Total, Progress: p.SVG}
		if p.Row != nil {
			row := newOCRRow(p.Index, *p.Row)
			ev.Type, ev.Row = eventRow, &row
		}
		send(ev)
	})

	done := ocrEvent{
		Type:       eventDone,
		SessionID:  ws.ID,
		Discipline: string(discipline),
		Done:       len(result.Rows),
		Total:      len(items),
		Progress:   result.Progress,
		Exportable: result.Exportable(),
	}
	if result.Err != nil {
		done.Error = result.Err.Error()
		done.Hint = credentialsHint
	}
	send(done)
}

// runOCR clears the session's previous run, recognizes items without holding
// the workspace lock, then stores the result.
func (h *Handler) runOCR(ctx context.Context, svc *ocr.Service, ws *storage.Workspace, items []models.ImageItem, discipline ocr.Discipline, onProgress ocr.ProgressFunc) *ocr.Result {
	ws.Lock()
	ws.OCR = nil
	ws.Unlock()

	result := svc.Run(ctx, items, discipline, onProgress)

	ws.Lock()
	ws.OCR = result
	ws.Unlock()
	return result
}

// HandleOCRExport downloads the last completed run of the session.
func (h *Handler) HandleOCRExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	ws.Lock()
	defer ws.Unlock()

	if ws.OCR == nil || !ws.OCR.Exportable() {
		h.writeError(w, "No completed OCR run to export", http.StatusNotFound)
		return
	}

	f, err := ws.OCR.Export(format)
	if err != nil {
		h.writeError(w, "Failed to build export: "+err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("OCR export", "session_id", ws.ID, "file", f.Name, "bytes", len(f.Data))
	h.writeFile(w, f)
}

// HandleOCRImage serves the n-th image of the session's last run.
func (h *Handler) HandleOCRImage(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}
	ws.Lock()
	defer ws.Unlock()

	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || ws.OCR == nil || n < 0 || n >= len(ws.OCR.Items) {
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}
	h.writeImage(w, r, ws.OCR.Items[n].Data)
}
