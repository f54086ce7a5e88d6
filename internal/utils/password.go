package utils

import "golang.org/x/crypto/bcrypt" // Password hashing

// MaxPasswordBytes is the longest input bcrypt accepts, counted in bytes
const MaxPasswordBytes = 72

// dummyHash is compared against when no user matches, so unknown emails
// cost the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// PasswordTooLong reports whether password exceeds what bcrypt can hash
func PasswordTooLong(password string) bool {
	return len(password) > MaxPasswordBytes
}

// HashPassword returns a salted bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnPasswordCheck performs a throwaway comparison for missing users
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
