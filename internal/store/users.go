package store

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"bank_api/internal/domain" // Importing domain models
	"bank_api/internal/utils"  // Password comparison

	"gorm.io/gorm" // GORM ORM library
)

// ListUsers returns every user row
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns the user with the given username
func (s *Store) GetUser(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a user whose Password already holds a hash
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// CheckCredentials returns the username owning email when password matches.
// Any mismatch yields ErrInvalidCredentials.
func (s *Store) CheckCredentials(ctx context.Context, email, password string) (string, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.BurnPasswordCheck(password)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("check credentials: %w", err)
	}
	if !utils.CheckPassword(user.Password, password) {
		return "", ErrInvalidCredentials
	}
	return user.Username, nil
}

// UpdatePassword stores a new password hash for username
func (s *Store) UpdatePassword(ctx context.Context, username, passwordHash string) (WriteResult, error) {
	var res WriteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&domain.User{}).Where("username = ?", username).Update("password", passwordHash)
		if q.Error != nil {
			return q.Error // Roll back
		}
		res.RowsAffected = q.RowsAffected
		return nil
	})
	if err != nil {
		return WriteResult{}, fmt.Errorf("update password: %w", err)
	}
	return res, nil
}

// UpdateUsername renames a user
func (s *Store) UpdateUsername(ctx context.Context, username, newUsername string) (WriteResult, error) {
	var res WriteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&domain.User{}).Where("username = ?", username).Update("username", newUsername)
		if q.Error != nil {
			return q.Error // Roll back
		}
		res.RowsAffected = q.RowsAffected
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return WriteResult{}, ErrUserExists
	}
	if err != nil {
		return WriteResult{}, fmt.Errorf("update username: %w", err)
	}
	return res, nil
}

// DeleteUser physically removes a user row
func (s *Store) DeleteUser(ctx context.Context, username string) (WriteResult, error) {
	var res WriteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("username = ?", username).Delete(&domain.User{})
		if q.Error != nil {
			return q.Error // Roll back
		}
		res.RowsAffected = q.RowsAffected
		return nil
	})
	if err != nil {
		return WriteResult{}, fmt.Errorf("delete user: %w", err)
	}
	return res, nil
}
