package db

import (
	"github.com/vibeprint/storefront/internal/app/model"
	"github.com/vibeprint/storefront/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every catalog table, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Category{},
		&model.Product{},
		&model.ProductVariation{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB migrates the given connection; tests pass their own.
func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
