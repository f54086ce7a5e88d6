package store

import (
	"context"   // Request-scoped cancellation
	"errors"    // Error inspection
	"fmt"       // Error wrapping
	"math/rand" // Account number candidates

	"bank_api/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Balance arithmetic
	"gorm.io/gorm"                  // GORM ORM library
	"gorm.io/gorm/clause"           // Row locking
)

// RandomAccountNumber draws a uniform number in [100000, 999999]
func RandomAccountNumber() int64 {
	return domain.MinAccountNumber + rand.Int63n(domain.MaxAccountNumber-domain.MinAccountNumber+1)
}

// nextAccountNumber draws candidates until taken reports a free one.
// Out-of-range candidates are discarded but still count as attempts.
func nextAccountNumber(draw func() int64, maxAttempts int, taken func(int64) (bool, error)) (int64, error) {
	for i := 0; i < maxAttempts; i++ {
		n := draw()
		if !domain.ValidAccountNumber(n) {
			continue
		}
		used, err := taken(n)
		if err != nil {
			return 0, err
		}
		if !used {
			return n, nil
		}
	}
	return 0, ErrAccountNumbersExhausted
}

// accountNumberIn draws a free account number using tx for collision checks
func (s *Store) accountNumberIn(tx *gorm.DB) (int64, error) {
	return nextAccountNumber(s.draw, s.maxAttempts, func(n int64) (bool, error) {
		var count int64
		if err := tx.Model(&domain.BankAccount{}).Where("account_id = ?", n).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	})
}

// GenerateAccountNumber returns an account number not present in Accounts.
// CreateBankAccount draws its own number inside the inserting transaction.
func (s *Store) GenerateAccountNumber(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = s.accountNumberIn(tx)
		return err
	})
	if errors.Is(err, ErrAccountNumbersExhausted) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("generate account number: %w", err)
	}
	return n, nil
}

// CreateBankAccount verifies the user, draws a unique number and inserts a
// zero-balance account, all in one transaction
func (s *Store) CreateBankAccount(ctx context.Context, userID uint) (*domain.BankAccount, error) {
	var account domain.BankAccount
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Verify user existence
		var users int64
		if err := tx.Model(&domain.User{}).Where("user_id = ?", userID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return ErrUserNotFound
		}
		id, err := s.accountNumberIn(tx)
		if err != nil {
			return err
		}
		account = domain.BankAccount{ID: id, UserID: userID, Balance: decimal.Zero}
		return tx.Create(&account).Error
	})
	switch {
	case err == nil:
		return &account, nil
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrAccountNumbersExhausted):
		return nil, err
	default:
		return nil, fmt.Errorf("create bank account: %w", err)
	}
}

// GetBankAccountByUser returns the account owned by userID
func (s *Store) GetBankAccountByUser(ctx context.Context, userID uint) (*domain.BankAccount, error) {
	return s.takeAccount(ctx, "user_id = ?", userID)
}

// GetBankAccount returns the account with the given number
func (s *Store) GetBankAccount(ctx context.Context, accountID int64) (*domain.BankAccount, error) {
	return s.takeAccount(ctx, "account_id = ?", accountID)
}

func (s *Store) takeAccount(ctx context.Context, cond string, arg any) (*domain.BankAccount, error) {
	var account domain.BankAccount
	err := s.db.WithContext(ctx).Where(cond, arg).Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return &account, nil
}

// IncrementBalance adds amount to an account and returns the new balance.
// The row is read with FOR UPDATE and written in the same transaction.
func (s *Store) IncrementBalance(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account domain.BankAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("account_id = ?", accountID).Take(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		balance = account.Balance.Add(amount)
		return tx.Model(&domain.BankAccount{}).Where("account_id = ?", accountID).Update("balance", balance).Error
	})
	if errors.Is(err, ErrAccountNotFound) {
		return decimal.Zero, err
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("increment balance: %w", err)
	}
	return balance, nil
}
