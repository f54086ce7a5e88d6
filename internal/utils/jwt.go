package utils

import (
	"errors" // Error values
	"time"   // Time for token issue and expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrMissingIdentity is returned for tokens that carry no username
var ErrMissingIdentity = errors.New("token carries no username")

// JWT Claims
type Claims struct {
	Name                 string `json:"name"` // Username the token was issued for
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a signed token for a username.
// A ttl of zero issues a token without an expiry.
func GenerateJWT(username, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: username, // Custom claim for the username
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now), // Issued at current time
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl)) // Token expires after ttl
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Name == "" {
		return nil, ErrMissingIdentity
	}
	return claims, nil
}
