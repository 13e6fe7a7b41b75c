// Package database opens the relational store and keeps the schema current.
package database

import (
	"fmt"
	"strings"

	"delivery/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens a GORM connection for the given DSN. An empty DSN or a
// file:/:memory: DSN selects SQLite, which keeps local development and tests
// free of external services; anything else is treated as a PostgreSQL DSN.
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch {
	case dsn == "" || dsn == ":memory:":
		dialector = sqlite.Open("file::memory:?cache=shared")
	case strings.HasPrefix(dsn, "file:"):
		dialector = sqlite.Open(dsn)
	default:
		dialector = postgres.Open(dsn)
	}

	// TranslateError maps dialect-specific unique violations onto
	// gorm.ErrDuplicatedKey, which the order repository retries on.
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate applies the schema for every model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Category{},
		&models.Product{},
		&models.CartLine{},
		&models.Order{},
		&models.Courier{},
		&models.CourierApplication{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
