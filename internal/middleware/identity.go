package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"bank_api/internal/domain" // Importing domain models
	"bank_api/internal/store"  // Data access layer

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserKey is the context key holding the user behind the token
const UserKey = "user"

// LoadUserMiddleware looks up the token identity in the store on each request.
// With required set, a token whose user no longer exists aborts with 403;
// otherwise the request continues without a user in context.
func LoadUserMiddleware(repo store.Repository, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := GetUsername(c) // Set by JWTAuthMiddleware
		user, err := repo.GetUser(c.Request.Context(), username)
		switch {
		case err == nil:
			c.Set(UserKey, user) // Store user in context
		case errors.Is(err, store.ErrUserNotFound):
			if required {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Token user no longer exists."})
				return
			}
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error verifying token user.", "error": err.Error()})
			return
		}
		c.Next()
	}
}

// GetUser returns the user loaded by LoadUserMiddleware, or nil
func GetUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(UserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}
