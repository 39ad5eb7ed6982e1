package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/config"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteMemory = ":memory:"

// InitDB initializes and returns a GORM database instance for the configured driver.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Silent
	if cfg.Database.LogSQL {
		level = logger.Info
	}

	switch cfg.Database.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Name,
		)
		db, err := gorm.Open(mysql.Open(dsn), gormConfig(level))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	default:
		return OpenSQLite(cfg.Database.Path, level)
	}
}

// OpenSQLite opens (creating if needed) a SQLite database file. The special
// path ":memory:" yields a private in-memory database pinned to one connection.
func OpenSQLite(path string, level logger.LogLevel) (*gorm.DB, error) {
	if path != sqliteMemory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=60000&_foreign_keys=1", path)
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if path == sqliteMemory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// Every new connection would see its own empty in-memory database.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates every table used by the ledger.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return nil
}

func gormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}
