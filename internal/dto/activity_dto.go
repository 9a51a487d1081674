package dto

import "github.com/google/uuid"

// NoteActivityMessage rides the NOTE_ACTIVITY topic between the note
// service and the activity log consumer.
type NoteActivityMessage struct {
	NoteId *uuid.UUID             `json:"note_id"`
	UserId uuid.UUID              `json:"user_id"`
	Action string                 `json:"action"`
	Detail map[string]interface{} `json:"detail,omitempty"`
}
