package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mckaywrigley/takeoff-notes-app-complete/internal/model"
)

// NoteStore provides the durable CRUD primitives over the notes table.
// Timestamps are set in Go rather than by SQLite defaults so updated_at
// advances with nanosecond resolution between consecutive writes.
type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

// NotePatch is a partial update: nil fields are left untouched.
type NotePatch struct {
	Title   *string
	Content *string
}

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	err := scanner.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

const noteCols = `id, user_id, title, content, created_at, updated_at`

func (s *NoteStore) Insert(userID, title, content string) (*model.Note, error) {
	if userID == "" {
		return nil, fmt.Errorf("insert note: user id is required")
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.Exec(
		`INSERT INTO notes (id, user_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, title, content, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return s.GetByID(id)
}

func (s *NoteStore) GetByID(id string) (*model.Note, error) {
	row := s.db.QueryRow(`SELECT `+noteCols+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// ListByUser returns every note owned by userID. No notes is an empty result,
// never an error.
func (s *NoteStore) ListByUser(userID string) ([]model.Note, error) {
	rows, err := s.db.Query(`SELECT `+noteCols+` FROM notes WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// UpdateByID applies only the supplied patch fields and recomputes updated_at.
func (s *NoteStore) UpdateByID(id string, patch NotePatch) (*model.Note, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	title := existing.Title
	if patch.Title != nil {
		title = *patch.Title
	}
	content := existing.Content
	if patch.Content != nil {
		content = *patch.Content
	}
	now := time.Now().UTC()

	_, err = s.db.Exec(
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		title, content, now, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.GetByID(id)
}

// DeleteByID removes the note. Deleting an id that does not exist is a no-op.
func (s *NoteStore) DeleteByID(id string) error {
	_, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
