package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/bazaro/bazaro-golang/internal/cart"
	"github.com/gin-gonic/gin"
)

//
// --- Cart Handlers ---
//
// The cart itself lives in memory (internal/cart); these handlers only
// touch the database to read current stock and prices.
//

// itemStock reads an item's current stock count.
func (h *Handlers) itemStock(itemID int64) (int, error) {
	var stock int
	err := h.DB.QueryRow("SELECT quantity FROM items WHERE item_id = ?", itemID).Scan(&stock)
	return stock, err
}

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ItemID int64 `json:"item_id" binding:"required"`
}

// AddToCart is the handler for POST /v1/cart/items
// One unit is added per call, mirroring the storefront's button.
func (h *Handlers) AddToCart(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	stock, err := h.itemStock(input.ItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	userCart := h.Carts.Get(userID)
	if err := userCart.Add(input.ItemID, stock); err != nil {
		switch {
		case errors.Is(err, cart.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "Item is out of stock"})
		case errors.Is(err, cart.ErrLimitReached):
			c.JSON(http.StatusConflict, gin.H{"error": "No more stock available for this item"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Item added to cart",
		"quantity": userCart.Quantity(input.ItemID),
	})
}

// CartItemResponse is one line of the cart view, joined with the
// item's live name, price and stock.
type CartItemResponse struct {
	ItemID    int64   `json:"itemId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
	Stock     int     `json:"stock"`
}

// GetCart is the handler for GET /v1/cart
// It returns the cart lines priced live, the running total and the
// user's wallet balance so the storefront can render the summary box.
func (h *Handlers) GetCart(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	lines := h.Carts.Get(userID).Lines()

	items := []CartItemResponse{}
	var total float64

	for _, line := range lines {
		var resp CartItemResponse
		err := h.DB.QueryRow(
			"SELECT item_id, name, price, quantity FROM items WHERE item_id = ?",
			line.ItemID,
		).Scan(&resp.ItemID, &resp.Name, &resp.Price, &resp.Stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// item was deleted since it was carted; skip the line
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart items"})
			return
		}

		resp.Quantity = line.Quantity
		resp.LineTotal = resp.Price * float64(line.Quantity)
		total += resp.LineTotal
		items = append(items, resp)
	}

	balance, err := h.GetWalletBalance(h.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get wallet balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":         items,
		"total":         total,
		"walletBalance": balance,
	})
}

// UpdateCartItemInput defines the JSON for the quantity buttons.
type UpdateCartItemInput struct {
	Action string `json:"action" binding:"required,oneof=increase decrease"`
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:item_id
// Increase is capped at the item's stock; decreasing below one removes
// the line.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stock, err := h.itemStock(itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check item stock"})
		return
	}

	delta := 1
	if input.Action == "decrease" {
		delta = -1
	}

	userCart := h.Carts.Get(userID)
	if err := userCart.ChangeQuantity(itemID, delta, stock); err != nil {
		if errors.Is(err, cart.ErrLimitReached) {
			c.JSON(http.StatusConflict, gin.H{"error": "No more stock available for this item"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Cart updated",
		"quantity": userCart.Quantity(itemID),
	})
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:item_id
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
		return
	}

	h.Carts.Get(userID).Remove(itemID)

	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
}
