// Package store is the data access layer. Every operation runs a single
// statement or a transaction on the shared GORM connection pool.
package store

import (
	"context" // Request-scoped cancellation
	"errors"  // Sentinel errors

	"bank_api/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Balance arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

// Sentinel errors mapped to HTTP statuses by the handlers
var (
	ErrUserNotFound            = errors.New("user does not exist")
	ErrAccountNotFound         = errors.New("account not found")
	ErrUserExists              = errors.New("username or email already registered")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrAccountNumbersExhausted = errors.New("no free account number found")
)

// WriteResult reports the outcome of a write
type WriteResult struct {
	RowsAffected int64 // Rows matched by the statement
}

// Found reports whether the write touched at least one row
func (r WriteResult) Found() bool {
	return r.RowsAffected > 0
}

// Repository is the persistence contract consumed by the HTTP handlers
type Repository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	CheckCredentials(ctx context.Context, email, password string) (string, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) (WriteResult, error)
	UpdateUsername(ctx context.Context, username, newUsername string) (WriteResult, error)
	DeleteUser(ctx context.Context, username string) (WriteResult, error)
	GetBankAccountByUser(ctx context.Context, userID uint) (*domain.BankAccount, error)
	GetBankAccount(ctx context.Context, accountID int64) (*domain.BankAccount, error)
	GenerateAccountNumber(ctx context.Context) (int64, error)
	CreateBankAccount(ctx context.Context, userID uint) (*domain.BankAccount, error)
	IncrementBalance(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
	Ping(ctx context.Context) error
}

// Options tunes account number generation
type Options struct {
	MaxAttempts int          // Draws before giving up, defaults to DefaultMaxAttempts
	Draw        func() int64 // Candidate source, defaults to a uniform six-digit draw
}

// DefaultMaxAttempts bounds the account number collision loop
const DefaultMaxAttempts = 100

// Store implements Repository on MySQL through GORM
type Store struct {
	db          *gorm.DB
	maxAttempts int
	draw        func() int64
}

var _ Repository = (*Store)(nil)

// New wraps an open connection pool
func New(db *gorm.DB, opts Options) *Store {
	s := &Store{db: db, maxAttempts: opts.MaxAttempts, draw: opts.Draw}
	if s.maxAttempts <= 0 {
		s.maxAttempts = DefaultMaxAttempts
	}
	if s.draw == nil {
		s.draw = RandomAccountNumber
	}
	return s
}

// Ping checks that the pool can reach the database
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
