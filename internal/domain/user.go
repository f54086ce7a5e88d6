package domain

// User Model
type User struct {
	ID       uint   `gorm:"column:user_id;primaryKey" json:"user_id"`                // Primary key
	Username string `gorm:"column:username;unique;not null" json:"username"`         // Unique username
	Password string `gorm:"column:password;not null" json:"-"`                       // Bcrypt hash, never serialized
	FullName string `gorm:"column:full_name" json:"full_name"`                       // Display name
	Email    string `gorm:"column:email;uniqueIndex;size:191;not null" json:"email"` // Login identifier
	Phone    string `gorm:"column:phone" json:"phone"`                               // Contact number
	Address  string `gorm:"column:address" json:"address"`                           // Postal address
}

// TableName maps User onto the pre-existing Users table
func (User) TableName() string {
	return "Users"
}
