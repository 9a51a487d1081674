package dto

import (
	"time"

	"github.com/google/uuid"
)

// Title and content may both be empty; a missing category_id on update
// means "leave the assignment alone", not "detach".
type CreateNoteRequest struct {
	Title      string     `json:"title" validate:"max=200"`
	Content    string     `json:"content"`
	CategoryId *uuid.UUID `json:"category_id"`
}

type UpdateNoteRequest struct {
	Title      string     `json:"title" validate:"max=200"`
	Content    string     `json:"content"`
	CategoryId *uuid.UUID `json:"category_id"`
}

// CategoryRef is the embedded category view returned alongside a note.
type CategoryRef struct {
	Id    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

type NoteResponse struct {
	Id        uuid.UUID    `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Category  *CategoryRef `json:"category,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}
