package db

import (
	"fmt" // Error wrapping

	"bank_api/internal/config" // Custom package for configuration

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
	"gorm.io/gorm/logger"  // GORM logger levels
)

// Open connects to MySQL and sizes the shared connection pool
func Open(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn // Only slow queries and errors by default
	if cfg.IsProd {
		logLevel = logger.Error
	}
	gdb, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,                             // Surface duplicate keys as gorm.ErrDuplicatedKey
		Logger:         logger.Default.LogMode(logLevel), // Query logging
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	sqlDB, err := gdb.DB() // Underlying database/sql pool
	if err != nil {
		return nil, fmt.Errorf("mysql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnLifetime)
	return gdb, nil
}

// Close drains the connection pool
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
