package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id      uuid.UUID
	Title   string
	Content string
	// CategoryId is nil for uncategorized notes; deleting a category clears
	// the reference on its notes instead of deleting them.
	CategoryId *uuid.UUID
	UserId     uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
