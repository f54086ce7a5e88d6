package store

import (
	"context"
	"regexp"
	"testing"

	"bank_api/internal/domain"
	"bank_api/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	countUsersByID    = "SELECT count(*) FROM `Users` WHERE user_id = ?"
	countAccountsByID = "SELECT count(*) FROM `Accounts` WHERE account_id = ?"
)

func newMockStore(t *testing.T, opts Options) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return New(gdb, opts), mock
}

// sequence returns a Draw func that yields values in order, then repeats the last
func sequence(values ...int64) func() int64 {
	i := 0
	return func() int64 {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

func TestCreateBankAccountUnknownUserRollsBack(t *testing.T) {
	s, mock := newMockStore(t, Options{Draw: sequence(123456)})

	mock.ExpectBegin()
	mock.ExpectQuery(q(countUsersByID)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectRollback()

	account, err := s.CreateBankAccount(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, account)
	assert.NoError(t, mock.ExpectationsWereMet()) // no INSERT issued
}

func TestCreateBankAccountRetriesOnCollision(t *testing.T) {
	s, mock := newMockStore(t, Options{Draw: sequence(123456, 654321)})

	mock.ExpectBegin()
	mock.ExpectQuery(q(countUsersByID)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery(q(countAccountsByID)).
		WithArgs(123456).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery(q(countAccountsByID)).
		WithArgs(654321).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec(q("INSERT INTO `Accounts`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	account, err := s.CreateBankAccount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(654321), account.ID)
	assert.Equal(t, uint(7), account.UserID)
	assert.True(t, account.Balance.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateAccountNumberExhausted(t *testing.T) {
	s, mock := newMockStore(t, Options{MaxAttempts: 3, Draw: sequence(111111)})

	mock.ExpectBegin()
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(q(countAccountsByID)).
			WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	}
	mock.ExpectRollback()

	_, err := s.GenerateAccountNumber(context.Background())
	assert.ErrorIs(t, err, ErrAccountNumbersExhausted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordUnknownUser(t *testing.T) {
	s, mock := newMockStore(t, Options{})

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE `Users` SET `password`=? WHERE username = ?")).
		WithArgs("hash", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	res, err := s.UpdatePassword(context.Background(), "ghost", "hash")
	require.NoError(t, err)
	assert.False(t, res.Found())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUsername(t *testing.T) {
	const rename = "UPDATE `Users` SET `username`=? WHERE username = ?"

	t.Run("renamed", func(t *testing.T) {
		s, mock := newMockStore(t, Options{})
		mock.ExpectBegin()
		mock.ExpectExec(q(rename)).
			WithArgs("alicia", "alice").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		res, err := s.UpdateUsername(context.Background(), "alice", "alicia")
		require.NoError(t, err)
		assert.True(t, res.Found())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		s, mock := newMockStore(t, Options{})
		mock.ExpectBegin()
		mock.ExpectExec(q(rename)).
			WithArgs("casper", "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		res, err := s.UpdateUsername(context.Background(), "ghost", "casper")
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.RowsAffected)
		assert.False(t, res.Found())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("name taken", func(t *testing.T) {
		s, mock := newMockStore(t, Options{})
		mock.ExpectBegin()
		mock.ExpectExec(q(rename)).
			WithArgs("bob", "alice").
			WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'bob' for key 'username'"})
		mock.ExpectRollback()

		res, err := s.UpdateUsername(context.Background(), "alice", "bob")
		assert.ErrorIs(t, err, ErrUserExists)
		assert.False(t, res.Found())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteUser(t *testing.T) {
	s, mock := newMockStore(t, Options{})

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM `Users` WHERE username = ?")).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := s.DeleteUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, res.Found())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	s, mock := newMockStore(t, Options{})

	mock.ExpectQuery(q("SELECT * FROM `Users` WHERE username = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username"}))

	_, err := s.GetUser(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckCredentials(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	userRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"user_id", "username", "password", "email"}).
			AddRow(1, "alice", hash, "alice@example.com")
	}

	t.Run("match", func(t *testing.T) {
		s, mock := newMockStore(t, Options{})
		mock.ExpectQuery(q("SELECT * FROM `Users` WHERE email = ?")).WillReturnRows(userRow())

		username, err := s.CheckCredentials(context.Background(), "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "alice", username)
	})

	t.Run("wrong password", func(t *testing.T) {
		s, mock := newMockStore(t, Options{})
		mock.ExpectQuery(q("SELECT * FROM `Users` WHERE email = ?")).WillReturnRows(userRow())

		username, err := s.CheckCredentials(context.Background(), "alice@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, username)
	})

	t.Run("unknown email", func(t *testing.T) {
		s, mock := newMockStore(t, Options{})
		mock.ExpectQuery(q("SELECT * FROM `Users` WHERE email = ?")).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		_, err := s.CheckCredentials(context.Background(), "bob@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestIncrementBalance(t *testing.T) {
	s, mock := newMockStore(t, Options{})

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT * FROM `Accounts` WHERE account_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "user_id", "balance"}).AddRow(507737, 1, "10.50"))
	mock.ExpectExec(q("UPDATE `Accounts` SET `balance`=? WHERE account_id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	balance, err := s.IncrementBalance(context.Background(), 507737, decimal.RequireFromString("5.25"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("15.75")), "got %s", balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementBalanceUnknownAccount(t *testing.T) {
	s, mock := newMockStore(t, Options{})

	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT * FROM `Accounts` WHERE account_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "user_id", "balance"}))
	mock.ExpectRollback()

	_, err := s.IncrementBalance(context.Background(), 999999, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(nil, Options{})
	assert.Equal(t, DefaultMaxAttempts, s.maxAttempts)
	for i := 0; i < 1000; i++ {
		assert.True(t, domain.ValidAccountNumber(s.draw()))
	}
}
