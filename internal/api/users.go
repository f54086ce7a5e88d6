package api

import (
	"context"  // Detached lookup context
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"time"     // Lookup timeout

	"bank_api/internal/domain"     // Importing domain models
	"bank_api/internal/middleware" // Request ID helpers
	"bank_api/internal/store"      // Data access layer
	"bank_api/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"       // Gin web framework
	"github.com/sirupsen/logrus"     // Logging library
	"golang.org/x/sync/singleflight" // Coalesces concurrent cache fills
)

// userLoads collapses concurrent misses for the same username into one query
var userLoads singleflight.Group

// userLoadTimeout bounds a shared lookup once it no longer follows any one request
const userLoadTimeout = 5 * time.Second

// UpdatePasswordRequest represents a password change
type UpdatePasswordRequest struct {
	Username    string `json:"username" binding:"required"`           // Account to change
	NewPassword string `json:"newPassword" binding:"required,max=72"` // Plaintext, hashed before storage
}

// UpdateUsernameRequest represents a rename
type UpdateUsernameRequest struct {
	Username    string `json:"username" binding:"required"`           // Current username
	NewUsername string `json:"newUsername" binding:"required,max=64"` // Desired username
}

// DeleteUserRequest represents a user deletion
type DeleteUserRequest struct {
	Username string `json:"username" binding:"required"` // Account to delete
}

// ListUsersHandler returns every user
func ListUsersHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var users []domain.User
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, d.Redis, utils.UsersListKey, &users); err == nil && found {
			c.JSON(http.StatusOK, users)
			return
		}
		gen := d.cacheGen.Load() // Read before the query so a later invalidation wins
		users, err := d.Repo.ListUsers(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error listing users.", "error": err.Error()})
			return
		}
		d.fillCache(ctx, utils.UsersListKey, users, gen) // Cache the response
		c.JSON(http.StatusOK, users)
	}
}

// GetUserHandler returns one user by username
func GetUserHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		username := c.Param("username")
		cacheKey := utils.UserCacheKey(username)
		var cached domain.User
		if found, err := utils.GetCache(ctx, d.Redis, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		gen := d.cacheGen.Load()
		ch := userLoads.DoChan(username, func() (any, error) {
			// Shared by every waiting caller, so not bound to the first one's request
			loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), userLoadTimeout)
			defer cancel()
			return d.Repo.GetUser(loadCtx, username)
		})
		var res singleflight.Result
		select {
		case res = <-ch:
		case <-ctx.Done():
			c.Abort() // Client went away, nobody to answer
			return
		}
		if errors.Is(res.Err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		if res.Err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching user.", "error": res.Err.Error()})
			return
		}
		user := res.Val.(*domain.User)
		d.fillCache(ctx, cacheKey, user, gen)
		c.JSON(http.StatusOK, user)
	}
}

// UpdatePasswordHandler replaces a user's password
func UpdatePasswordHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "error": err.Error()})
			return
		}
		if utils.PasswordTooLong(req.NewPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at most 72 bytes"})
			return
		}
		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating password.", "error": err.Error()})
			return
		}
		res, err := d.Repo.UpdatePassword(c.Request.Context(), req.Username, hash)
		if err != nil {
			logWriteFailure(c, "update_password", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating password.", "error": err.Error()})
			return
		}
		if !res.Found() {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found or password could not be updated."})
			return
		}
		logrus.WithField("username", req.Username).Info("Password updated")
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully."})
	}
}

// UpdateUsernameHandler renames a user
func UpdateUsernameHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUsernameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "error": err.Error()})
			return
		}
		res, err := d.Repo.UpdateUsername(c.Request.Context(), req.Username, req.NewUsername)
		if errors.Is(err, store.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "Username already taken."})
			return
		}
		if err != nil {
			logWriteFailure(c, "update_username", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating username.", "error": err.Error()})
			return
		}
		if !res.Found() {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found or username could not be updated."})
			return
		}
		d.invalidateUsers(c, req.Username, req.NewUsername)
		logrus.WithFields(logrus.Fields{
			"username":     req.Username,    // Previous username
			"new_username": req.NewUsername, // Current username
		}).Info("Username updated")
		c.JSON(http.StatusOK, gin.H{"message": "Username updated successfully."})
	}
}

// DeleteUserHandler removes a user
func DeleteUserHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "error": err.Error()})
			return
		}
		res, err := d.Repo.DeleteUser(c.Request.Context(), req.Username)
		if err != nil {
			logWriteFailure(c, "delete_user", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting user.", "error": err.Error()})
			return
		}
		if !res.Found() {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found or could not be deleted."})
			return
		}
		d.invalidateUsers(c, req.Username)
		logrus.WithField("username", req.Username).Info("User deleted")
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
	}
}

func logWriteFailure(c *gin.Context, op, username string, err error) {
	logrus.WithFields(logrus.Fields{
		"op":         op,                         // Failed operation
		"username":   username,                   // Target user
		"request_id": middleware.GetRequestID(c), // Correlation ID
		"error":      err.Error(),                // Error message
	}).Error("User write failed")
}
