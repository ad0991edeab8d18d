package tenant

import "gorm.io/gorm"

// Scope restricts a query to one school.
func Scope(schoolID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("school_id = ?", schoolID)
	}
}
