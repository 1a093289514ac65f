package handlers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Wallet Core Functions ---
//

// Querier is the common subset of *sql.DB and *sql.Tx used for balance
// reads, so the helpers work in and out of a transaction.
type Querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// GetWalletBalance returns a user's current wallet balance.
func (h *Handlers) GetWalletBalance(q Querier, userID int64) (float64, error) {
	var balance float64
	err := q.QueryRow("SELECT wallet_balance FROM users WHERE user_id = ?", userID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to read wallet balance: %w", err)
	}
	return balance, nil
}

// creditWallet increases a user's balance. amount must be positive;
// callers validate before getting here.
func creditWallet(tx *sql.Tx, userID int64, amount float64) error {
	_, err := tx.Exec(
		"UPDATE users SET wallet_balance = wallet_balance + ? WHERE user_id = ?",
		amount, userID)
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return nil
}

// debitWallet decreases a user's balance. The caller must have already
// verified sufficiency inside the same transaction; this helper does
// not re-check.
func debitWallet(tx *sql.Tx, userID int64, amount float64) error {
	_, err := tx.Exec(
		"UPDATE users SET wallet_balance = wallet_balance - ? WHERE user_id = ?",
		amount, userID)
	if err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	return nil
}

//
// --- Wallet HTTP Handlers ---
//

// GetMyWallet is the handler for GET /v1/wallet
func (h *Handlers) GetMyWallet(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	balance, err := h.GetWalletBalance(h.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get wallet balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// AddFundsInput defines the JSON for a wallet top-up.
type AddFundsInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// AddFunds is the handler for POST /v1/wallet/funds
// It credits the wallet and returns the new balance.
func (h *Handlers) AddFunds(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input AddFundsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	if err := creditWallet(tx, userID, input.Amount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add funds"})
		return
	}

	var newBalance float64
	err = tx.QueryRow("SELECT wallet_balance FROM users WHERE user_id = ?", userID).Scan(&newBalance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read new balance"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit top-up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Funds added successfully",
		"balance": newBalance,
	})
}
