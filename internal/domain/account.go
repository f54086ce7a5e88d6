package domain

import "github.com/shopspring/decimal" // Exact decimal arithmetic for balances

// Account numbers are six-digit integers
const (
	MinAccountNumber int64 = 100000 // Smallest six-digit account number
	MaxAccountNumber int64 = 999999 // Largest six-digit account number
)

// BankAccount Model
type BankAccount struct {
	ID      int64           `gorm:"column:account_id;primaryKey;autoIncrement:false" json:"account_id"` // Six-digit account number
	UserID  uint            `gorm:"column:user_id;index;not null" json:"user_id"`                       // Owning user, checked on creation
	Balance decimal.Decimal `gorm:"column:balance;type:decimal(15,2);not null;default:0" json:"balance"` // Current balance
}

// TableName maps BankAccount onto the pre-existing Accounts table
func (BankAccount) TableName() string {
	return "Accounts"
}

// ValidAccountNumber reports whether n lies in the six-digit range
func ValidAccountNumber(n int64) bool {
	return n >= MinAccountNumber && n <= MaxAccountNumber
}
