package notes

import (
	"database/sql"
	"log/slog"
	"testing"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/database"
	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/store"
)

// recordingInvalidator captures invalidation signals for assertions.
type recordingInvalidator struct {
	calls []string
	users []string
}

func (r *recordingInvalidator) InvalidateNotes(userID, action, id string) {
	r.calls = append(r.calls, action)
	r.users = append(r.users, userID)
}

func setupService(t *testing.T) (*Service, *recordingInvalidator, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	inv := &recordingInvalidator{}
	svc := NewService(store.NewNoteStore(db), inv, slog.Default())
	return svc, inv, db
}

func TestServiceCreate(t *testing.T) {
	svc, inv, _ := setupService(t)

	out := svc.Create("user-1", "Title", "Content")
	if !out.Succeeded {
		t.Fatalf("create failed: %s", out.Message)
	}
	if out.Message != "Note created successfully" {
		t.Errorf("message = %q", out.Message)
	}
	if out.Data == nil || out.Data.ID == "" {
		t.Fatal("expected created note in outcome")
	}
	if len(inv.calls) != 1 || inv.calls[0] != "created" {
		t.Errorf("invalidations = %v, want [created]", inv.calls)
	}
	if len(inv.users) != 1 || inv.users[0] != "user-1" {
		t.Errorf("invalidation users = %v, want the note's owner", inv.users)
	}
}

func TestServiceCreateFailure(t *testing.T) {
	svc, inv, db := setupService(t)
	db.Close()

	out := svc.Create("user-1", "Title", "Content")
	if out.Succeeded {
		t.Fatal("expected failed outcome")
	}
	if out.Message != "Failed to create note" {
		t.Errorf("message = %q, want fixed failure message", out.Message)
	}
	if out.Data != nil {
		t.Errorf("data = %+v, want nil", out.Data)
	}
	if len(inv.calls) != 0 {
		t.Errorf("invalidations = %v, want none on failure", inv.calls)
	}
}

func TestServiceListByUser(t *testing.T) {
	svc, _, _ := setupService(t)

	svc.Create("alice", "a1", "")
	svc.Create("bob", "b1", "")

	out := svc.ListByUser("alice")
	if !out.Succeeded {
		t.Fatalf("list failed: %s", out.Message)
	}
	if len(out.Data) != 1 || out.Data[0].Title != "a1" {
		t.Errorf("data = %+v, want alice's single note", out.Data)
	}
}

func TestServiceListEmptyIsSuccess(t *testing.T) {
	svc, _, _ := setupService(t)

	out := svc.ListByUser("nobody")
	if !out.Succeeded {
		t.Fatalf("list failed: %s", out.Message)
	}
	if out.Data == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(out.Data) != 0 {
		t.Errorf("expected no notes, got %d", len(out.Data))
	}
}

func TestServiceGetNotFoundIsSuccessWithNilData(t *testing.T) {
	svc, _, _ := setupService(t)

	out := svc.Get("missing")
	if !out.Succeeded {
		t.Fatalf("get of missing note should succeed, got: %s", out.Message)
	}
	if out.Data != nil {
		t.Errorf("data = %+v, want nil", out.Data)
	}
}

func TestServiceGetStoreFailure(t *testing.T) {
	svc, _, db := setupService(t)
	db.Close()

	out := svc.Get("any")
	if out.Succeeded {
		t.Fatal("expected failed outcome for store failure")
	}
	if out.Message != "Failed to get note" {
		t.Errorf("message = %q", out.Message)
	}
}

func TestServiceUpdate(t *testing.T) {
	svc, inv, _ := setupService(t)

	created := svc.Create("user-1", "Old", "Body")
	inv.calls = nil

	title := "New"
	out := svc.Update(created.Data.ID, store.NotePatch{Title: &title})
	if !out.Succeeded {
		t.Fatalf("update failed: %s", out.Message)
	}
	if out.Data.Title != "New" || out.Data.Content != "Body" {
		t.Errorf("data = %+v, want title updated and content kept", out.Data)
	}
	if len(inv.calls) != 1 || inv.calls[0] != "updated" {
		t.Errorf("invalidations = %v, want [updated]", inv.calls)
	}
}

func TestServiceUpdateNotFoundIsFailure(t *testing.T) {
	svc, inv, _ := setupService(t)

	title := "x"
	out := svc.Update("missing", store.NotePatch{Title: &title})
	if out.Succeeded {
		t.Fatal("expected failed outcome for missing note")
	}
	if out.Message != "Failed to update note" {
		t.Errorf("message = %q", out.Message)
	}
	if len(inv.calls) != 0 {
		t.Errorf("invalidations = %v, want none", inv.calls)
	}
}

func TestServiceDelete(t *testing.T) {
	svc, inv, _ := setupService(t)

	created := svc.Create("user-1", "t", "c")
	inv.calls = nil

	out := svc.Delete(created.Data.ID)
	if !out.Succeeded {
		t.Fatalf("delete failed: %s", out.Message)
	}
	if out.Data != nil {
		t.Errorf("data = %+v, want nil for delete", out.Data)
	}
	if len(inv.calls) != 1 || inv.calls[0] != "deleted" {
		t.Errorf("invalidations = %v, want [deleted]", inv.calls)
	}

	// Deletion is final: a later get reports nil data.
	got := svc.Get(created.Data.ID)
	if !got.Succeeded || got.Data != nil {
		t.Errorf("get after delete = %+v, want success with nil data", got)
	}
}

func TestServiceDeleteMissingIsSuccessWithoutSignal(t *testing.T) {
	svc, inv, _ := setupService(t)

	out := svc.Delete("missing")
	if !out.Succeeded {
		t.Fatalf("delete of missing note should succeed: %s", out.Message)
	}
	if len(inv.calls) != 0 {
		t.Errorf("invalidations = %v, want none when nothing was deleted", inv.calls)
	}
}

func TestServiceNilInvalidator(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := NewService(store.NewNoteStore(db), nil, slog.Default())
	out := svc.Create("user-1", "t", "c")
	if !out.Succeeded {
		t.Fatalf("create failed: %s", out.Message)
	}
}
