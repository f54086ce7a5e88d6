package db

import (
	"bank_api/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate creates the Users and Accounts tables for local databases.
// The server never calls it; production schemas are managed outside this repo.
func Migrate(gdb *gorm.DB) error {
	// AutoMigrate will create tables, missing columns and indexes
	if err := gdb.AutoMigrate(&domain.User{}, &domain.BankAccount{}); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
