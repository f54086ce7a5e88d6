package api

import (
	"context"
	"sync"

	"bank_api/internal/domain"
	"bank_api/internal/store"
	"bank_api/internal/utils"

	"github.com/shopspring/decimal"
)

// memRepo is an in-memory store.Repository for handler tests
type memRepo struct {
	mu          sync.Mutex
	users       map[string]*domain.User
	accounts    map[int64]*domain.BankAccount
	nextUserID  uint
	nextAccount int64
}

var _ store.Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		users:       map[string]*domain.User{},
		accounts:    map[int64]*domain.BankAccount{},
		nextAccount: domain.MinAccountNumber,
	}
}

func (m *memRepo) ListUsers(context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memRepo) GetUser(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return store.ErrUserExists
		}
	}
	m.nextUserID++
	user.ID = m.nextUserID
	cp := *user
	m.users[user.Username] = &cp
	return nil
}

func (m *memRepo) CheckCredentials(_ context.Context, email, password string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && utils.CheckPassword(u.Password, password) {
			return u.Username, nil
		}
	}
	return "", store.ErrInvalidCredentials
}

func (m *memRepo) UpdatePassword(_ context.Context, username, hash string) (store.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return store.WriteResult{}, nil
	}
	u.Password = hash
	return store.WriteResult{RowsAffected: 1}, nil
}

func (m *memRepo) UpdateUsername(_ context.Context, username, newUsername string) (store.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return store.WriteResult{}, nil
	}
	if _, taken := m.users[newUsername]; taken && newUsername != username {
		return store.WriteResult{}, store.ErrUserExists
	}
	delete(m.users, username)
	u.Username = newUsername
	m.users[newUsername] = u
	return store.WriteResult{RowsAffected: 1}, nil
}

func (m *memRepo) DeleteUser(_ context.Context, username string) (store.WriteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; !ok {
		return store.WriteResult{}, nil
	}
	delete(m.users, username)
	return store.WriteResult{RowsAffected: 1}, nil
}

func (m *memRepo) GetBankAccountByUser(_ context.Context, userID uint) (*domain.BankAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

func (m *memRepo) GetBankAccount(_ context.Context, accountID int64) (*domain.BankAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) GenerateAccountNumber(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextAccount, nil
}

func (m *memRepo) CreateBankAccount(_ context.Context, userID uint) (*domain.BankAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for _, u := range m.users {
		if u.ID == userID {
			found = true
		}
	}
	if !found {
		return nil, store.ErrUserNotFound
	}
	a := &domain.BankAccount{ID: m.nextAccount, UserID: userID, Balance: decimal.Zero}
	m.accounts[a.ID] = a
	m.nextAccount++
	cp := *a
	return &cp, nil
}

func (m *memRepo) IncrementBalance(_ context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return decimal.Zero, store.ErrAccountNotFound
	}
	a.Balance = a.Balance.Add(amount)
	return a.Balance, nil
}

func (m *memRepo) Ping(context.Context) error { return nil }

func (m *memRepo) userCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
