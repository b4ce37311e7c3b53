package database

import (
	"context"
	"fmt"
	"os"

	"codeclash/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewGormConnection(config Config) (*GormDB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	logLevel := logger.Warn
	if gormLogLevel := os.Getenv("GORM_LOG_LEVEL"); gormLogLevel != "" {
		switch gormLogLevel {
		case "silent":
			logLevel = logger.Silent
		case "error":
			logLevel = logger.Error
		case "warn":
			logLevel = logger.Warn
		case "info":
			logLevel = logger.Info
		}
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &GormDB{DB: db}, nil
}

func (db *GormDB) AutoMigrate() error {
	if err := db.createCustomTypes(); err != nil {
		return fmt.Errorf("failed to create custom types: %w", err)
	}

	err := db.DB.AutoMigrate(
		&models.Problem{},
		&models.TestCase{},
		&models.QueueEntry{},
		&models.Match{},
		&models.Submission{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	return nil
}

func (db *GormDB) WithContext(ctx context.Context) *gorm.DB {
	return db.DB.WithContext(ctx)
}

func (db *GormDB) Transaction(fc func(tx *gorm.DB) error) error {
	return db.DB.Transaction(fc)
}

func (db *GormDB) createCustomTypes() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	_, err = sqlDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`)
	if err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	enums := []struct {
		name   string
		values []string
	}{
		{
			name: "difficulty",
			values: []string{
				string(models.DifficultyEasy),
				string(models.DifficultyMedium),
				string(models.DifficultyHard),
			},
		},
		{
			name: "queue_status",
			values: []string{
				string(models.QueueStatusWaiting),
				string(models.QueueStatusMatched),
				string(models.QueueStatusCancelled),
			},
		},
		{
			name: "match_mode",
			values: []string{
				string(models.MatchModeSolo),
				string(models.MatchModeOneVOne),
			},
		},
		{
			name: "match_status",
			values: []string{
				string(models.MatchStatusActive),
				string(models.MatchStatusCompleted),
				string(models.MatchStatusAbandoned),
			},
		},
	}

	for _, enum := range enums {
		if err := db.createEnumType(enum.name, enum.values); err != nil {
			return fmt.Errorf("failed to create %s type: %w", enum.name, err)
		}
	}

	return nil
}

func (db *GormDB) createEnumType(typeName string, values []string) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = $1)`
	err = sqlDB.QueryRow(checkQuery, typeName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check if type %s exists: %w", typeName, err)
	}

	if !exists {
		enumValues := ""
		for i, value := range values {
			if i > 0 {
				enumValues += ", "
			}
			enumValues += "'" + value + "'"
		}

		createQuery := fmt.Sprintf(`CREATE TYPE %s AS ENUM (%s)`, typeName, enumValues)
		_, err = sqlDB.Exec(createQuery)
		if err != nil {
			return fmt.Errorf("failed to create type %s: %w", typeName, err)
		}
	}

	return nil
}

func (db *GormDB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
