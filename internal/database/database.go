package database

import (
	"log"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the SQLite database at path and runs migrations.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required).
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database connected and migrated successfully")
	return db, nil
}

// Migrate creates or updates the schema for every CRM table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Person{},
		&models.PersonLink{},
		&models.Client{},
		&models.Lender{},
		&models.Realtor{},
		&models.Loan{},
		&models.Opportunity{},
		&models.Document{},
		&models.Note{},
		&models.Todo{},
		&models.Activity{},
		&models.Notification{},
		&models.Conversation{},
		&models.Message{},
	)
}
