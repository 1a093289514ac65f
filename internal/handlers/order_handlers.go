package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bazaro/bazaro-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Checkout ---
//

// checkoutLine is one cart line with the price re-fetched at checkout
// time. The cart stores no price snapshot; the price charged is the
// price at this moment, and it is what gets written to order_items.
type checkoutLine struct {
	ItemID    int64
	Quantity  int
	UnitPrice float64
}

// Checkout is the handler for POST /v1/checkout
// The whole pipeline runs in one serializable transaction: price and
// stock are re-read with row locks, stock and funds are validated, and
// only then are the order, order items and payment written, stock
// decremented and the wallet debited. A failure at any step leaves
// stock and balance untouched.
func (h *Handlers) Checkout(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	// 1. --- Read the Session Cart ---
	userCart := h.Carts.Get(userID)
	cartLines := userCart.Lines()
	if len(cartLines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	}

	// 2. --- Begin Transaction ---
	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback() // Safety net

	// 3. --- Re-fetch Prices & Stock, Lock the Rows ---
	var lines []checkoutLine
	var total float64

	for _, cl := range cartLines {
		var line checkoutLine
		var stock int
		err := tx.QueryRow(
			"SELECT item_id, price, quantity FROM items WHERE item_id = ? FOR UPDATE",
			cl.ItemID,
		).Scan(&line.ItemID, &line.UnitPrice, &stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// item vanished after it was carted; skip it
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart items"})
			return
		}

		// 4. --- Stock Check ---
		if stock < cl.Quantity {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Not enough stock for item %d", cl.ItemID)})
			return
		}

		line.Quantity = cl.Quantity
		total += line.UnitPrice * float64(cl.Quantity)
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart contains no available items"})
		return
	}

	// 5. --- Funds Check ---
	var balance float64
	err = tx.QueryRow("SELECT wallet_balance FROM users WHERE user_id = ? FOR UPDATE", userID).Scan(&balance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get wallet balance"})
		return
	}
	if balance < total {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient wallet balance"})
		return
	}

	// 6. --- Create the Order ---
	now := time.Now()
	result, err := tx.Exec(
		"INSERT INTO orders (buyer_id, total_price, order_date) VALUES (?, ?, ?)",
		userID, total, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get new order ID"})
		return
	}

	// 7. --- Order Items & Stock Decrement ---
	itemQuery := "INSERT INTO order_items (order_id, item_id, quantity, price) VALUES (?, ?, ?, ?)"
	stockQuery := "UPDATE items SET quantity = quantity - ? WHERE item_id = ?"

	for _, line := range lines {
		if _, err := tx.Exec(itemQuery, orderID, line.ItemID, line.Quantity, line.UnitPrice); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save order item"})
			return
		}
		if _, err := tx.Exec(stockQuery, line.Quantity, line.ItemID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deduct stock"})
			return
		}
	}

	// 8. --- Payment Record & Wallet Debit ---
	_, err = tx.Exec(
		"INSERT INTO payments (order_id, payment_status, payment_method) VALUES (?, ?, ?)",
		orderID, models.PaymentStatusCompleted, models.PaymentMethodWallet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	if err := debitWallet(tx, userID, total); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to debit wallet"})
		return
	}

	// 9. --- Commit, then Clear the Cart ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit checkout"})
		return
	}
	h.Carts.Clear(userID)

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Order placed successfully",
		"orderId":    orderID,
		"total":      total,
		"newBalance": balance - total,
	})
}

//
// --- Order Retrieval ---
//

// OrderItemDetail extends the base OrderItem with the item's name.
type OrderItemDetail struct {
	models.OrderItem
	ItemName string `json:"itemName"`
}

// OrderDetail is one order with its line items and payment status.
type OrderDetail struct {
	models.Order
	Items         []OrderItemDetail `json:"items"`
	PaymentStatus string            `json:"paymentStatus"`
}

// ListMyOrders is the handler for GET /v1/orders
// Orders come back newest first, each with its line items and the
// payment status ("pending" when no payment row exists).
func (h *Handlers) ListMyOrders(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	rows, err := h.DB.Query(
		"SELECT order_id, buyer_id, total_price, order_date FROM orders WHERE buyer_id = ? ORDER BY order_date DESC",
		userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []OrderDetail{}
	for rows.Next() {
		var o OrderDetail
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.TotalPrice, &o.OrderDate); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating orders"})
		return
	}

	for i := range orders {
		items, err := h.orderItems(orders[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order items"})
			return
		}
		orders[i].Items = items

		status := models.PaymentStatusPending
		err = h.DB.QueryRow(
			"SELECT payment_status FROM payments WHERE order_id = ?",
			orders[i].ID,
		).Scan(&status)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment status"})
			return
		}
		orders[i].PaymentStatus = status
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// orderItems loads an order's line items joined with item names.
func (h *Handlers) orderItems(orderID int64) ([]OrderItemDetail, error) {
	rows, err := h.DB.Query(`
		SELECT oi.order_item_id, oi.order_id, oi.item_id, oi.quantity, oi.price, i.name
		FROM order_items oi
		JOIN items i ON oi.item_id = i.item_id
		WHERE oi.order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []OrderItemDetail{}
	for rows.Next() {
		var item OrderItemDetail
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ItemID, &item.Quantity, &item.Price, &item.ItemName); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
