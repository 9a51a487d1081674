package dto

import "github.com/google/uuid"

type GenerateNotesRequest struct {
	Subject string `json:"subject" validate:"required"`
}

type GenerateNotesResponse struct {
	Message string      `json:"message"`
	Count   int         `json:"count"`
	NoteIds []uuid.UUID `json:"note_ids"`
}
