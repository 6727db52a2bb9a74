package db

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/smart"
)

// Store errors
var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrListNotFound     = errors.New("list not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrProtectedList    = errors.New("default lists can not be deleted or renamed")
)

// Open sets up the database connection, runs migrations and seeds the smart lists
func Open(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Pragmas are per connection; one connection keeps foreign_keys on for every statement
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		Close(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedSmartLists(db); err != nil {
		Close(db)
		return nil, fmt.Errorf("failed to seed default lists: %w", err)
	}

	return db, nil
}

// runMigrations creates/updates the database schema, parents before children
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Group{},
		&models.List{},
		&models.Reminder{},
		&models.Notification{},
	)
}

// seedSmartLists inserts whichever of the five smart lists are missing
func seedSmartLists(db *gorm.DB) error {
	lists := smart.Defaults()
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&lists).Error
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
