package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"bank_api/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UsernameKey is the context key holding the verified token identity
const UsernameKey = "username"

// JWTAuthMiddleware validates bearer tokens and stores the username.
// A missing token aborts with 401, a token that fails verification with 403.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization")) // Extract the token string
		if !ok {
			// No credentials presented
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":       c.FullPath(),    // Route being accessed
				"request_id": GetRequestID(c), // Correlation ID
				"error":      err.Error(),     // Verification failure
			}).Warn("Rejected token")
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Set(UsernameKey, claims.Name) // Store username in context
		c.Next()                        // Proceed to the next handler
	}
}

// bearerToken splits "Bearer <token>" and reports whether a token was present
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUsername returns the verified username, or "" outside protected routes
func GetUsername(c *gin.Context) string {
	return c.GetString(UsernameKey)
}
