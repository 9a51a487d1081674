package mapper

import (
	"encoding/json"

	"turbo-notes-be/internal/entity"
	"turbo-notes-be/internal/model"

	"gorm.io/datatypes"
)

type ActivityLogMapper struct{}

func NewActivityLogMapper() *ActivityLogMapper {
	return &ActivityLogMapper{}
}

func (m *ActivityLogMapper) ToEntity(a *model.ActivityLog) *entity.ActivityLog {
	if a == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(a.Metadata) > 0 {
		// Best effort: unreadable metadata degrades to nil, the row survives.
		_ = json.Unmarshal(a.Metadata, &metadata)
	}

	return &entity.ActivityLog{
		Id:        a.Id,
		UserId:    a.UserId,
		NoteId:    a.NoteId,
		Action:    a.Action,
		Metadata:  metadata,
		CreatedAt: a.CreatedAt,
	}
}

func (m *ActivityLogMapper) ToModel(a *entity.ActivityLog) *model.ActivityLog {
	if a == nil {
		return nil
	}

	var metadata datatypes.JSON
	if a.Metadata != nil {
		raw, err := json.Marshal(a.Metadata)
		if err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	return &model.ActivityLog{
		Id:        a.Id,
		UserId:    a.UserId,
		NoteId:    a.NoteId,
		Action:    a.Action,
		Metadata:  metadata,
		CreatedAt: a.CreatedAt,
	}
}

func (m *ActivityLogMapper) ToEntities(logs []*model.ActivityLog) []*entity.ActivityLog {
	entities := make([]*entity.ActivityLog, len(logs))
	for i, a := range logs {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
