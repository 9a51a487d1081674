package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_logs_user_created,priority:1"`
	NoteId    *uuid.UUID     `gorm:"type:uuid;index"`
	Action    string         `gorm:"type:varchar(50);not null"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index:idx_activity_logs_user_created,priority:2"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
