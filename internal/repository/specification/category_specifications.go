package specification

import "gorm.io/gorm"

// ByNames filters categories by an exact set of names.
type ByNames struct {
	Names []string
}

func (s ByNames) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name IN ?", s.Names)
}
