package models

import (
	"time"
)

// Order is the model for the 'orders' table. Orders are created once
// at checkout and never modified afterwards.
type Order struct {
	ID         int64     `json:"id" db:"order_id"`
	BuyerID    int64     `json:"buyerId" db:"buyer_id"`
	TotalPrice float64   `json:"totalPrice" db:"total_price"`
	OrderDate  time.Time `json:"orderDate" db:"order_date"`
}

// OrderItem is the model for the 'order_items' table. Price is the
// unit price at the time of purchase, so later price changes on the
// item do not rewrite order history.
type OrderItem struct {
	ID       int64   `json:"id" db:"order_item_id"`
	OrderID  int64   `json:"orderId" db:"order_id"`
	ItemID   int64   `json:"itemId" db:"item_id"`
	Quantity int     `json:"quantity" db:"quantity"`
	Price    float64 `json:"price" db:"price"`
}

// Payment is the model for the 'payments' table. One row per order;
// wallet is the only supported method.
type Payment struct {
	ID      int64  `json:"id" db:"payment_id"`
	OrderID int64  `json:"orderId" db:"order_id"`
	Status  string `json:"status" db:"payment_status"`
	Method  string `json:"method" db:"payment_method"`
}

// Payment status and method values written by checkout.
const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentMethodWallet    = "wallet"
)
