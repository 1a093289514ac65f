package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/bazaro/bazaro-golang/internal/auth"
	"github.com/bazaro/bazaro-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

//
// --- User Registration & Login ---
//

// RegisterInput holds what we accept from a new user. Separate from
// models.User so callers cannot set an id or a balance.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register is the handler for POST /v1/register
// New users start with a zero wallet balance and get a session token
// right away.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	result, err := h.DB.Exec(
		"INSERT INTO users (name, email, password, wallet_balance) VALUES (?, ?, ?, 0)",
		input.Name, input.Email, password.Hash)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	userID, _ := result.LastInsertId()

	token, err := auth.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": models.User{
			ID:    userID,
			Name:  input.Name,
			Email: input.Email,
		},
	})
}

// LoginInput defines the JSON for login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /v1/login
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.DB.QueryRow(
		"SELECT user_id, name, email, password, wallet_balance FROM users WHERE email = ?",
		input.Email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.WalletBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify password"})
		return
	}
	if !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

//
// --- Profile ---
//

// ProfileStats is the account summary block on the profile page.
type ProfileStats struct {
	TotalOrders int     `json:"totalOrders"`
	TotalSpent  float64 `json:"totalSpent"`
	ItemsInCart int     `json:"itemsInCart"`
	MyItems     int     `json:"myItems"`
}

// GetMyProfile is the handler for GET /v1/me
func (h *Handlers) GetMyProfile(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var user models.User
	err := h.DB.QueryRow(
		"SELECT user_id, name, email, wallet_balance FROM users WHERE user_id = ?",
		userID,
	).Scan(&user.ID, &user.Name, &user.Email, &user.WalletBalance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	stats := ProfileStats{ItemsInCart: h.Carts.Get(userID).Len()}

	err = h.DB.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM orders WHERE buyer_id = ?",
		userID,
	).Scan(&stats.TotalOrders, &stats.TotalSpent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order stats"})
		return
	}

	err = h.DB.QueryRow(
		"SELECT COUNT(*) FROM items WHERE owner_user_id = ?", userID,
	).Scan(&stats.MyItems)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"stats": stats,
	})
}
