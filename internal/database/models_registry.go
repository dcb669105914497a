package database

import "blogapi/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.AuthToken{},
		&models.BlogPost{},
		&models.Like{},
	}
}
