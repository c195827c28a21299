// Package database owns the GORM connection, schema and the per-request
// unit-of-work helper.
package database

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cinelog/internal/config"
	"cinelog/internal/logger"
)

var DB *gorm.DB

// Initialize sets up the database connection from configuration and
// migrates the schema. SQLite is the default backend.
func Initialize() error {
	cfg := config.Get()

	db, err := Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	DB = db
	logger.Info("database initialized (type=%s)", cfg.Database.Type)
	return nil
}

// Connect opens a connection to the configured backend without touching
// the package-level instance.
func Connect(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Type {
	case "postgres":
		return connectPostgres(cfg)
	case "sqlite":
		return connectSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Migrate creates or updates the three tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Movie{}, &Interaction{})
}

func connectPostgres(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port)

	return gorm.Open(postgres.Open(dsn), gormConfig(cfg))
}

func connectSQLite(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), gormConfig(cfg))
	if err != nil {
		return nil, err
	}

	// SQLite does not enforce foreign keys unless asked to.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return db, nil
}

func gormConfig(cfg *config.DatabaseConfig) *gorm.Config {
	logMode := gormlogger.Silent
	if cfg.LogQueries {
		logMode = gormlogger.Info
	}
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	}
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the package-level instance (tests).
func SetDB(db *gorm.DB) {
	DB = db
}
