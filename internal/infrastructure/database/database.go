package database

import (
	"fmt"
	"time"

	"github.com/PavaniTiago/survey-api/internal/config"
	"github.com/PavaniTiago/survey-api/internal/infrastructure/database/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupDatabase(conf config.Config) (*gorm.DB, error) {
	if conf.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not defined in the environment")
	}

	db, err := gorm.Open(postgres.Open(conf.Database.URL), GormConfig(conf.Database.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(conf.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(conf.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(conf.ConnMaxLifetime())

	if err := RegisterCallbacks(db, conf.SlowQueryThreshold()); err != nil {
		return nil, fmt.Errorf("failed to register callbacks: %w", err)
	}

	// Apply database migrations and indexes
	if err := migrations.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := migrations.AddIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to add indexes: %w", err)
	}

	if err := migrations.OptimizePerformanceIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to add optimized indexes: %w", err)
	}

	return db, nil
}

// GormConfig monta a configuração padrão do gorm para a API
func GormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		// Writes that span several rows open their own transaction
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(gormLogLevel(logLevel)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Error
	}
}
