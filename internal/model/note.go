package model

import "time"

// Note is a user-owned text record. The ID is a server-generated UUID and is
// immutable for the note's lifetime. UpdatedAt is overwritten by the store on
// every successful update.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
