package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Timestamps

	"bank_api/internal/middleware" // Token identity helpers
	"bank_api/internal/store"      // Data access layer

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Deposit amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// CreateBankAccountRequest represents a bank account opening
type CreateBankAccountRequest struct {
	UserID uint `json:"userId" binding:"required"` // Owning user
}

// DepositRequest represents a balance increment
type DepositRequest struct {
	AccountID int64           `json:"accountId" binding:"required"` // Target account
	Amount    decimal.Decimal `json:"amount"`                       // Amount to add, must be positive
}

// GetBankAccountHandler returns the account owned by a user id
func GetBankAccountHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
			return
		}
		account, err := d.Repo.GetBankAccountByUser(c.Request.Context(), uint(userID))
		if errors.Is(err, store.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Account not found."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching account.", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

// CreateBankAccountHandler opens a zero-balance account with a fresh number
func CreateBankAccountHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBankAccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "error": err.Error()})
			return
		}
		account, err := d.Repo.CreateBankAccount(c.Request.Context(), req.UserID)
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User does not exist."})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":    req.UserID,                 // Requested owner
				"request_id": middleware.GetRequestID(c), // Correlation ID
				"error":      err.Error(),                // Error message
			}).Error("Failed to create bank account")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating bank account.", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    account.UserID,                  // Owner
			"account_id": account.ID,                      // New account number
			"timestamp":  time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Bank account created")
		c.JSON(http.StatusOK, gin.H{"message": "Bank account created successfully.", "accountId": account.ID})
	}
}

// DepositHandler adds funds to an account owned by the token user
func DepositHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.GetUser(c) // Loaded by LoadUserMiddleware
		if user == nil {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		var req DepositRequest
		if err := c.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid amount"})
			return
		}
		ctx := c.Request.Context()
		account, err := d.Repo.GetBankAccount(ctx, req.AccountID)
		if errors.Is(err, store.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Account not found."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching account.", "error": err.Error()})
			return
		}
		if account.UserID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Account belongs to another user."})
			return
		}
		balance, err := d.Repo.IncrementBalance(ctx, req.AccountID, req.Amount)
		if errors.Is(err, store.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Account not found."})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": req.AccountID,       // Target account
				"amount":     req.Amount.String(), // Deposit amount
				"error":      err.Error(),         // Error message
			}).Error("Deposit failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Deposit failed.", "error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,                         // Depositor
			"account_id": req.AccountID,                   // Target account
			"amount":     req.Amount.String(),             // Deposit amount
			"timestamp":  time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Deposit transaction")
		c.JSON(http.StatusOK, gin.H{"message": "Deposit successful", "balance": balance})
	}
}
