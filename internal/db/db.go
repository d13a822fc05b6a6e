package db

import (
	"errors"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres using DATABASE_URL.
func Open() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	// TranslateError maps driver duplicate-key failures onto
	// gorm.ErrDuplicatedKey so the store can surface them as conflicts.
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

// Migrate runs GORM auto-migrations for the core tables.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	if err := conn.AutoMigrate(
		&User{},
		&Game{},
		&Event{},
		&Reservation{},
		&Nomination{},
		&Vote{},
		&GameSuggestion{},
		&Session{},
		&Activity{},
	); err != nil {
		return err
	}
	log.Println("database migration complete")
	return nil
}
