package db

import (
	"fmt"

	"github.com/vibeprint/storefront/config"
	appLogger "github.com/vibeprint/storefront/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxIdleConns = 5
	maxOpenConns = 25
)

var DB *gorm.DB

// Initialize opens the catalog database.
func Initialize(cfg *config.DatabaseConfig) error {
	appLogger.Info("Connecting to catalog database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
	})

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // we log through pkg/logger
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)

	appLogger.Info("Catalog database connection established", map[string]interface{}{
		"max_idle_conns": maxIdleConns,
		"max_open_conns": maxOpenConns,
	})
	return nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return DB
}
