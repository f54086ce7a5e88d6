package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"bank_api/internal/domain"     // Importing domain models
	"bank_api/internal/middleware" // Token identity helpers
	"bank_api/internal/store"      // Data access layer
	"bank_api/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// invalidToken is returned in place of a token on failed logins
const invalidToken = "invalid"

// Request struct for registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=64"`        // Username must be provided
	Password string `json:"password" binding:"required,min=1,max=72"` // Byte length checked separately
	FullName string `json:"full_name"`                                 // Optional display name
	Email    string `json:"email" binding:"required,email"`            // Login identifier
	Phone    string `json:"phone"`                                     // Optional contact number
	Address  string `json:"address"`                                   // Optional postal address
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for registration
type RegisterResponse struct {
	AccessToken string       `json:"accessToken"` // JWT token
	User        *domain.User `json:"user"`        // Created user
}

// Response struct for login
type LoginResponse struct {
	AccessToken string `json:"accessToken"` // JWT token or "invalid"
}

// RegisterHandler creates a user and returns a token for it
func RegisterHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "error": err.Error()})
			return
		}
		if utils.PasswordTooLong(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at most 72 bytes"})
			return
		}
		// Hash the password before it reaches the store
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		user := &domain.User{
			Username: req.Username,
			Password: hash,
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Address:  req.Address,
		}
		if err := d.Repo.CreateUser(c.Request.Context(), user); err != nil {
			if errors.Is(err, store.ErrUserExists) {
				c.JSON(http.StatusConflict, gin.H{"message": "Username or email already registered."})
				return
			}
			logrus.WithFields(logrus.Fields{
				"username":   req.Username,               // Requested username
				"request_id": middleware.GetRequestID(c), // Correlation ID
				"error":      err.Error(),                // Error message
			}).Error("Registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating user.", "error": err.Error()})
			return
		}
		d.invalidateUsers(c, user.Username) // Drop cached user list
		// Generate JWT token keyed on the username
		token, err := utils.GenerateJWT(user.Username, d.TokenSecret, d.TokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // New username
		}).Info("User registered")
		c.JSON(http.StatusOK, RegisterResponse{AccessToken: token, User: user})
	}
}

// LoginHandler authenticates by email and password and returns a token
func LoginHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "error": err.Error()})
			return
		}
		username, err := d.Repo.CheckCredentials(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, store.ErrInvalidCredentials) {
			logrus.WithField("request_id", middleware.GetRequestID(c)).Warn("Login rejected")
			c.JSON(http.StatusUnauthorized, LoginResponse{AccessToken: invalidToken})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error checking credentials.", "error": err.Error()})
			return
		}
		token, err := utils.GenerateJWT(username, d.TokenSecret, d.TokenTTL)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, LoginResponse{AccessToken: token})
	}
}

// CheckTokenHandler returns the token's user if it still exists, else an empty array
func CheckTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		users := []domain.User{}
		if user := middleware.GetUser(c); user != nil {
			users = append(users, *user)
		}
		c.JSON(http.StatusOK, users)
	}
}
