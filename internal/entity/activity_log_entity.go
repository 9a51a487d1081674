package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note lifecycle actions recorded in the activity log.
const (
	ActivityActionCreated   = "created"
	ActivityActionUpdated   = "updated"
	ActivityActionDeleted   = "deleted"
	ActivityActionGenerated = "generated"
)

type ActivityLog struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	NoteId    *uuid.UUID
	Action    string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
