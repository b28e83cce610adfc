package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/auth"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/notes"
)

// TemplateHandler renders the notes workspace and its HTMX partials. Every
// mutation goes through the per-session view so the page reflects the same
// list, selection, and dirty state the view tracks.
type TemplateHandler struct {
	views     *notes.ViewRegistry
	templates *template.Template
	logger    *slog.Logger
}

func NewTemplateHandler(views *notes.ViewRegistry, logger *slog.Logger) *TemplateHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/*.html"))
	return &TemplateHandler{
		views:     views,
		templates: tmpl,
		logger:    logger,
	}
}

type workspaceData struct {
	Notes      []noteRow
	Selected   *noteRow
	Dirty      bool
	FlashError string
}

type noteRow struct {
	ID        string
	Title     string
	Content   string
	UpdatedAt string
	Selected  bool
}

func (h *TemplateHandler) viewFor(r *http.Request) *notes.View {
	ac, _ := auth.FromContext(r.Context())
	return h.views.ViewFor(ac.SessionID, ac.UserID)
}

func (h *TemplateHandler) workspace(v *notes.View, flashError string) workspaceData {
	selected, hasSelection := v.Selected()

	data := workspaceData{Dirty: v.Dirty(), FlashError: flashError}
	for _, n := range v.Notes() {
		data.Notes = append(data.Notes, noteRow{
			ID:        n.ID,
			Title:     n.Title,
			UpdatedAt: n.UpdatedAt.Local().Format("Jan 2 15:04"),
			Selected:  hasSelection && n.ID == selected.ID,
		})
	}
	if hasSelection {
		data.Selected = &noteRow{
			ID:      selected.ID,
			Title:   selected.Title,
			Content: selected.Content,
		}
	}
	return data
}

func (h *TemplateHandler) NotesPage(w http.ResponseWriter, r *http.Request) {
	v := h.viewFor(r)
	v.Load()
	h.render(w, "notes.html", h.workspace(v, ""))
}

// NotesRefresh reloads the list from the server. Wired to the websocket
// change signal on the client side.
func (h *TemplateHandler) NotesRefresh(w http.ResponseWriter, r *http.Request) {
	v := h.viewFor(r)
	flash := ""
	if !v.Load() {
		flash = "Failed to get notes"
	}
	h.renderPartial(w, "notes-main", h.workspace(v, flash))
}

func (h *TemplateHandler) NoteAdd(w http.ResponseWriter, r *http.Request) {
	v := h.viewFor(r)
	flash := ""
	if !v.Add() {
		flash = "Failed to create note"
	}
	h.renderPartial(w, "notes-main", h.workspace(v, flash))
}

func (h *TemplateHandler) NoteSelect(w http.ResponseWriter, r *http.Request) {
	v := h.viewFor(r)
	flash := ""
	if !v.Select(r.PathValue("id")) {
		flash = "Note not found"
	}
	h.renderPartial(w, "notes-main", h.workspace(v, flash))
}

// NoteEditField applies a local edit to the working copy. Nothing is sent
// to the server until the user saves.
func (h *TemplateHandler) NoteEditField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	v := h.viewFor(r)
	if _, ok := r.Form["title"]; ok {
		v.SetTitle(r.FormValue("title"))
	}
	if _, ok := r.Form["content"]; ok {
		v.SetContent(r.FormValue("content"))
	}

	h.renderPartial(w, "note-status", h.workspace(v, ""))
}

func (h *TemplateHandler) NoteSave(w http.ResponseWriter, r *http.Request) {
	v := h.viewFor(r)
	flash := ""
	if !v.Save() {
		flash = "Failed to update note"
	}
	h.renderPartial(w, "notes-main", h.workspace(v, flash))
}

func (h *TemplateHandler) NoteDelete(w http.ResponseWriter, r *http.Request) {
	v := h.viewFor(r)
	flash := ""
	if !v.Delete() {
		flash = "Failed to delete note"
	}
	h.renderPartial(w, "notes-main", h.workspace(v, flash))
}

func (h *TemplateHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (h *TemplateHandler) renderPartial(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template error", "template", name, "error", err)
		fmt.Fprintf(w, `<div class="alert alert-error">Template error</div>`)
	}
}
