package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByCategory filters notes by category
type ByCategory struct {
	CategoryID uuid.UUID
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category_id = ?", s.CategoryID)
}
