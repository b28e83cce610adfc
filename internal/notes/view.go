package notes

import (
	"sort"
	"sync"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/model"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/store"
)

// defaultTitle is the title given to freshly created notes.
const defaultTitle = "New Note"

// View is the per-session editing state for one user's notes: the full list,
// at most one selected note holding possibly-unsaved local edits, and a dirty
// flag. The list and the selected copy are not authoritative; they are
// reconciled against service outcomes, and on a failed call the local state
// is left exactly as it was.
type View struct {
	svc    *Service
	userID string

	mu       sync.Mutex
	notes    []model.Note
	selected *model.Note
	dirty    bool
}

func NewView(svc *Service, userID string) *View {
	return &View{svc: svc, userID: userID}
}

// Load replaces the local list with the server's. Selection and edits are
// untouched so a refresh cannot eat typed text.
func (v *View) Load() bool {
	out := v.svc.ListByUser(v.userID)
	if !out.Succeeded {
		return false
	}
	v.mu.Lock()
	v.notes = out.Data
	v.mu.Unlock()
	return true
}

// Add creates a note with default fields and selects it. The local list is
// only touched after the server confirms: a failed create changes nothing.
func (v *View) Add() bool {
	out := v.svc.Create(v.userID, defaultTitle, "")
	if !out.Succeeded || out.Data == nil {
		return false
	}
	v.mu.Lock()
	v.notes = append(v.notes, *out.Data)
	sel := *out.Data
	v.selected = &sel
	v.dirty = false
	v.mu.Unlock()
	return true
}

// Select makes the note with the given id the working copy, verbatim from the
// local list. Replacing the selection wholesale discards any unsaved edit on
// the previous one; the dirty flag itself is left as-is.
func (v *View) Select(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, n := range v.notes {
		if n.ID == id {
			sel := n
			v.selected = &sel
			return true
		}
	}
	return false
}

// SetTitle applies a local-only edit to the selected note's title.
func (v *View) SetTitle(title string) bool {
	return v.edit(func(n *model.Note) { n.Title = title })
}

// SetContent applies a local-only edit to the selected note's content.
func (v *View) SetContent(content string) bool {
	return v.edit(func(n *model.Note) { n.Content = content })
}

func (v *View) edit(apply func(*model.Note)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return false
	}
	apply(v.selected)
	v.dirty = true
	return true
}

// Save pushes the selected note's local title and content to the server. On
// success the matching list entry and the selection are replaced with the
// server's copy and the dirty flag clears; on failure the local edits stay
// visible and dirty stays set.
func (v *View) Save() bool {
	v.mu.Lock()
	if v.selected == nil {
		v.mu.Unlock()
		return false
	}
	id := v.selected.ID
	title := v.selected.Title
	content := v.selected.Content
	v.mu.Unlock()

	out := v.svc.Update(id, store.NotePatch{Title: &title, Content: &content})
	if !out.Succeeded || out.Data == nil {
		return false
	}

	v.mu.Lock()
	for i := range v.notes {
		if v.notes[i].ID == out.Data.ID {
			v.notes[i] = *out.Data
			break
		}
	}
	if v.selected != nil && v.selected.ID == out.Data.ID {
		sel := *out.Data
		v.selected = &sel
		v.dirty = false
	}
	v.mu.Unlock()
	return true
}

// Delete removes the selected note. On success it disappears from the list
// and the selection clears, discarding any unsaved edit; on failure nothing
// changes.
func (v *View) Delete() bool {
	v.mu.Lock()
	if v.selected == nil {
		v.mu.Unlock()
		return false
	}
	id := v.selected.ID
	v.mu.Unlock()

	out := v.svc.Delete(id)
	if !out.Succeeded {
		return false
	}

	v.mu.Lock()
	kept := v.notes[:0]
	for _, n := range v.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	v.notes = kept
	if v.selected != nil && v.selected.ID == id {
		v.selected = nil
		v.dirty = false
	}
	v.mu.Unlock()
	return true
}

// Notes returns the list ordered for display: most recently updated first.
// The sort happens at render time since updated_at moves on every save.
func (v *View) Notes() []model.Note {
	v.mu.Lock()
	out := make([]model.Note, len(v.notes))
	copy(out, v.notes)
	v.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Selected returns a copy of the working note, or false if nothing is
// selected.
func (v *View) Selected() (model.Note, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return model.Note{}, false
	}
	return *v.selected, true
}

// Dirty reports whether the selected note has unsaved local edits.
func (v *View) Dirty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dirty
}
