package database

import (
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// MigrationModels is the single registry of entities to auto-migrate.
// Order matters: referenced tables first.
func MigrationModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	}
}

// Migrate applies schema migrations for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(MigrationModels()...)
}
