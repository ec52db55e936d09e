package database

import (
	"fmt"
	"time"

	"github.com/tuitionterminal/backend/internal/config"
	"github.com/tuitionterminal/backend/internal/models"
	"github.com/tuitionterminal/backend/internal/queue"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the database connection with configuration
func InitDB(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dbConfig.URL), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdle)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate runs schema migrations for all models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Users and authentication
		&models.User{},
		&models.PasswordResetToken{},

		// Profiles
		&models.Tutor{},
		&models.Student{},

		// Marketplace
		&models.Job{},
		&models.Category{},
		&models.Testimonial{},

		// Affiliate program
		&models.Affiliate{},
		&models.AffiliateTransaction{},

		// Background jobs
		&queue.Job{},
	)
}
