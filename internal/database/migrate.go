package database

import (
	"fmt"

	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table, including the unique indexes and
// check constraints that back relation invariants.
func Migrate(db *gorm.DB) error {
	logging.Info().Str("dialect", db.Dialector.Name()).Msg("running auto-migration")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
