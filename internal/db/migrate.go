package db

import (
	"fmt"

	"github.com/reeltalk/reeltalk/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the GORM models for migration, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.Genre{},
		&models.User{},
		&models.Movie{},
		&models.MovieGenre{},
		&models.Rating{},
	}
}

// AutoMigrate creates or updates all dataset tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
