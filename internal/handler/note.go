package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/auth"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/notes"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/store"
)

// NoteHandler exposes the notes service over JSON. Responses are the
// service's outcome envelope verbatim; the HTTP status only mirrors the
// succeeded flag.
type NoteHandler struct {
	svc    *notes.Service
	logger *slog.Logger
}

func NewNoteHandler(svc *notes.Service, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{svc: svc, logger: logger}
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	out := h.svc.Create(auth.UserID(r.Context()), req.Title, req.Content)
	status := http.StatusCreated
	if !out.Succeeded {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, out)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	out := h.svc.ListByUser(auth.UserID(r.Context()))
	status := http.StatusOK
	if !out.Succeeded {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, out)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	out := h.svc.Get(r.PathValue("id"))
	if out.Succeeded && out.Data != nil && out.Data.UserID != auth.UserID(r.Context()) {
		// Another user's note is indistinguishable from a missing one.
		out.Data = nil
	}
	status := http.StatusOK
	if !out.Succeeded {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, out)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.owns(r, id) {
		writeJSON(w, http.StatusNotFound, notes.Outcome[any]{Message: "Failed to update note"})
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	out := h.svc.Update(id, store.NotePatch{Title: req.Title, Content: req.Content})
	status := http.StatusOK
	if !out.Succeeded {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, out)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.owns(r, id) {
		writeJSON(w, http.StatusNotFound, notes.Outcome[any]{Message: "Failed to delete note"})
		return
	}

	out := h.svc.Delete(id)
	status := http.StatusOK
	if !out.Succeeded {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, out)
}

// owns reports whether the note exists and belongs to the requesting user.
func (h *NoteHandler) owns(r *http.Request, id string) bool {
	out := h.svc.Get(id)
	return out.Succeeded && out.Data != nil && out.Data.UserID == auth.UserID(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
