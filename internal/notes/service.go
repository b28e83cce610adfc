package notes

import (
	"errors"
	"log/slog"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/model"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/store"
)

// Invalidator is notified after every successful mutation so that cached
// renderings of the note list can be refreshed. The websocket hub satisfies
// it in production.
type Invalidator interface {
	InvalidateNotes(userID, action, id string)
}

// Service wraps the note store's primitives in outcome envelopes. Store
// failures are logged here and replaced with a fixed user-facing message;
// nothing above this layer ever sees a raised error from a note operation.
type Service struct {
	store       *store.NoteStore
	invalidator Invalidator
	logger      *slog.Logger
}

func NewService(ns *store.NoteStore, inv Invalidator, logger *slog.Logger) *Service {
	return &Service{store: ns, invalidator: inv, logger: logger}
}

func (s *Service) invalidate(userID, action, id string) {
	if s.invalidator != nil {
		s.invalidator.InvalidateNotes(userID, action, id)
	}
}

func (s *Service) Create(userID, title, content string) Outcome[*model.Note] {
	n, err := s.store.Insert(userID, title, content)
	if err != nil {
		s.logger.Error("create note", "error", err)
		return failure[*model.Note]("Failed to create note")
	}
	s.invalidate(n.UserID, "created", n.ID)
	return success("Note created successfully", n)
}

func (s *Service) ListByUser(userID string) Outcome[[]model.Note] {
	ns, err := s.store.ListByUser(userID)
	if err != nil {
		s.logger.Error("list notes", "error", err, "user_id", userID)
		return failure[[]model.Note]("Failed to get notes")
	}
	if ns == nil {
		ns = []model.Note{}
	}
	return success("Notes retrieved successfully", ns)
}

// Get folds a missing note into a successful outcome carrying nil data.
// Only a store-level failure produces a failed outcome.
func (s *Service) Get(id string) Outcome[*model.Note] {
	n, err := s.store.GetByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return success("Note retrieved successfully", (*model.Note)(nil))
	}
	if err != nil {
		s.logger.Error("get note", "error", err, "note_id", id)
		return failure[*model.Note]("Failed to get note")
	}
	return success("Note retrieved successfully", n)
}

func (s *Service) Update(id string, patch store.NotePatch) Outcome[*model.Note] {
	n, err := s.store.UpdateByID(id, patch)
	if err != nil {
		s.logger.Error("update note", "error", err, "note_id", id)
		return failure[*model.Note]("Failed to update note")
	}
	s.invalidate(n.UserID, "updated", n.ID)
	return success("Note updated successfully", n)
}

func (s *Service) Delete(id string) Outcome[*model.Note] {
	// The owner is read first so the invalidation signal can be routed to
	// their sessions after the row is gone.
	existing, err := s.store.GetByID(id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("delete note", "error", err, "note_id", id)
		return failure[*model.Note]("Failed to delete note")
	}

	if err := s.store.DeleteByID(id); err != nil {
		s.logger.Error("delete note", "error", err, "note_id", id)
		return failure[*model.Note]("Failed to delete note")
	}
	if existing != nil {
		s.invalidate(existing.UserID, "deleted", id)
	}
	return success("Note deleted successfully", (*model.Note)(nil))
}
