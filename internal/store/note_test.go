package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strptr(s string) *string { return &s }

func TestNoteRoundTrip(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	created, err := ns.Insert("user-1", "Groceries", "milk, eggs")
	if err != nil {
		t.Fatalf("insert note: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := ns.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("user_id = %q, want %q", got.UserID, "user-1")
	}
	if got.Title != "Groceries" {
		t.Errorf("title = %q, want %q", got.Title, "Groceries")
	}
	if got.Content != "milk, eggs" {
		t.Errorf("content = %q, want %q", got.Content, "milk, eggs")
	}
}

func TestNoteInsertRequiresUser(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	if _, err := ns.Insert("", "t", "c"); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestNoteEmptyFieldsAllowed(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	n, err := ns.Insert("user-1", "", "")
	if err != nil {
		t.Fatalf("insert note with empty fields: %v", err)
	}
	if n.Title != "" || n.Content != "" {
		t.Errorf("title/content = %q/%q, want empty", n.Title, n.Content)
	}
}

func TestNoteGetNotFound(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	_, err := ns.GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNotePartialUpdate(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	n, err := ns.Insert("user-1", "Old title", "Old content")
	if err != nil {
		t.Fatalf("insert note: %v", err)
	}

	updated, err := ns.UpdateByID(n.ID, NotePatch{Title: strptr("New title")})
	if err != nil {
		t.Fatalf("update note: %v", err)
	}
	if updated.Title != "New title" {
		t.Errorf("title = %q, want %q", updated.Title, "New title")
	}
	if updated.Content != "Old content" {
		t.Errorf("content = %q, want unchanged %q", updated.Content, "Old content")
	}
	if !updated.UpdatedAt.After(n.UpdatedAt) {
		t.Errorf("updated_at = %v, want strictly after %v", updated.UpdatedAt, n.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(n.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", n.CreatedAt, updated.CreatedAt)
	}
}

func TestNoteUpdateNotFound(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	_, err := ns.UpdateByID("missing", NotePatch{Title: strptr("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNoteListScopedByUser(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	ns.Insert("alice", "a1", "")
	ns.Insert("alice", "a2", "")
	ns.Insert("bob", "b1", "")

	notes, err := ns.ListByUser("alice")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	for _, n := range notes {
		if n.UserID != "alice" {
			t.Errorf("note %q owned by %q, want %q", n.ID, n.UserID, "alice")
		}
	}
}

func TestNoteListEmpty(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	notes, err := ns.ListByUser("nobody")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected no notes, got %d", len(notes))
	}
}

func TestNoteDeleteFinality(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	n, err := ns.Insert("user-1", "t", "c")
	if err != nil {
		t.Fatalf("insert note: %v", err)
	}

	if err := ns.DeleteByID(n.ID); err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if _, err := ns.GetByID(n.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestNoteDeleteMissingIsNoop(t *testing.T) {
	ns := NewNoteStore(setupTestDB(t))

	if err := ns.DeleteByID("missing"); err != nil {
		t.Fatalf("delete missing note: %v", err)
	}
}
