package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/bazaro/bazaro-golang/internal/auth"
	"github.com/bazaro/bazaro-golang/internal/cart"
	"github.com/bazaro/bazaro-golang/internal/database"
	"github.com/bazaro/bazaro-golang/internal/handlers"
	"github.com/bazaro/bazaro-golang/internal/routes"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB connects to the database named by DB_DSN_TEST and wipes
// the marketplace tables. Tests are skipped when no test database is
// configured.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("DB_DSN_TEST")
	if dsn == "" {
		t.Skip("DB_DSN_TEST not set; skipping database integration test")
	}

	db, err := database.OpenDBWithDSN(dsn)
	if err != nil {
		t.Fatalf("Unable to connect to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Order matters due to FKs
	tables := []string{"order_items", "payments", "orders", "items", "sellers", "users", "categories"}
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}

	return db
}

func newTestApp(db *sql.DB) (*handlers.Handlers, *gin.Engine) {
	app := &handlers.Handlers{DB: db, Carts: cart.NewStore()}
	return app, routes.SetupRouter(app)
}

func seedCategory(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec("INSERT INTO categories (name) VALUES (?)", name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedUser(t *testing.T, db *sql.DB, email string, balance float64) int64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO users (name, email, password, wallet_balance) VALUES (?, ?, ?, ?)",
		"Test User", email, "x", balance)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func seedItem(t *testing.T, db *sql.DB, categoryID, ownerID int64, price float64, stock int) int64 {
	t.Helper()
	res, err := db.Exec(`
		INSERT INTO items (name, description, price, quantity, category_id, seller_id, owner_user_id, image_filename)
		VALUES (?, ?, ?, ?, ?, NULL, ?, 'temp.jpg')`,
		"Test Item", "an item under test", price, stock, categoryID, ownerID)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func doJSON(router *gin.Engine, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, _ := auth.GenerateToken(userID)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckout_Success(t *testing.T) {
	db := setupTestDB(t)
	app, router := newTestApp(db)

	// Item A priced $10 with stock 2, buyer with $25
	catID := seedCategory(t, db, "Electronics")
	sellerID := seedUser(t, db, "seller@example.com", 0)
	buyerID := seedUser(t, db, "buyer@example.com", 25)
	itemID := seedItem(t, db, catID, sellerID, 10, 2)

	userCart := app.Carts.Get(buyerID)
	require.NoError(t, userCart.Add(itemID, 2))
	require.NoError(t, userCart.Add(itemID, 2))

	w := doJSON(router, http.MethodPost, "/v1/checkout", buyerID, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		OrderID    int64   `json:"orderId"`
		Total      float64 `json:"total"`
		NewBalance float64 `json:"newBalance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 20.0, resp.Total, 0.001)
	assert.InDelta(t, 5.0, resp.NewBalance, 0.001)

	// DB state: stock 0, balance 5, one order / one line / one payment
	var stock int
	require.NoError(t, db.QueryRow("SELECT quantity FROM items WHERE item_id = ?", itemID).Scan(&stock))
	assert.Equal(t, 0, stock)

	var balance float64
	require.NoError(t, db.QueryRow("SELECT wallet_balance FROM users WHERE user_id = ?", buyerID).Scan(&balance))
	assert.InDelta(t, 5.0, balance, 0.001)

	var orderCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders WHERE buyer_id = ?", buyerID).Scan(&orderCount))
	assert.Equal(t, 1, orderCount)

	var qty int
	var unitPrice float64
	require.NoError(t, db.QueryRow(
		"SELECT quantity, price FROM order_items WHERE order_id = ?", resp.OrderID,
	).Scan(&qty, &unitPrice))
	assert.Equal(t, 2, qty)
	assert.InDelta(t, 10.0, unitPrice, 0.001)

	var status, method string
	require.NoError(t, db.QueryRow(
		"SELECT payment_status, payment_method FROM payments WHERE order_id = ?", resp.OrderID,
	).Scan(&status, &method))
	assert.Equal(t, "completed", status)
	assert.Equal(t, "wallet", method)

	// cart is cleared after a successful checkout
	assert.Equal(t, 0, app.Carts.Get(buyerID).Len())
}

func TestCheckout_InsufficientFunds(t *testing.T) {
	db := setupTestDB(t)
	app, router := newTestApp(db)

	// Same cart but the buyer only has $15
	catID := seedCategory(t, db, "Electronics")
	sellerID := seedUser(t, db, "seller@example.com", 0)
	buyerID := seedUser(t, db, "buyer@example.com", 15)
	itemID := seedItem(t, db, catID, sellerID, 10, 2)

	userCart := app.Carts.Get(buyerID)
	require.NoError(t, userCart.Add(itemID, 2))
	require.NoError(t, userCart.Add(itemID, 2))

	w := doJSON(router, http.MethodPost, "/v1/checkout", buyerID, nil)
	require.Equal(t, http.StatusPaymentRequired, w.Code, w.Body.String())

	// nothing was mutated: stock intact, balance intact, no rows written
	var stock int
	require.NoError(t, db.QueryRow("SELECT quantity FROM items WHERE item_id = ?", itemID).Scan(&stock))
	assert.Equal(t, 2, stock)

	var balance float64
	require.NoError(t, db.QueryRow("SELECT wallet_balance FROM users WHERE user_id = ?", buyerID).Scan(&balance))
	assert.InDelta(t, 15.0, balance, 0.001)

	var orderCount, paymentCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&orderCount))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM payments").Scan(&paymentCount))
	assert.Equal(t, 0, orderCount)
	assert.Equal(t, 0, paymentCount)

	// the cart survives a failed checkout
	assert.Equal(t, 1, app.Carts.Get(buyerID).Len())
}

func TestCheckout_EmptyCart(t *testing.T) {
	db := setupTestDB(t)
	_, router := newTestApp(db)

	buyerID := seedUser(t, db, "buyer@example.com", 100)

	w := doJSON(router, http.MethodPost, "/v1/checkout", buyerID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckout_OutOfStockLine(t *testing.T) {
	db := setupTestDB(t)
	app, router := newTestApp(db)

	catID := seedCategory(t, db, "Electronics")
	sellerID := seedUser(t, db, "seller@example.com", 0)
	buyerID := seedUser(t, db, "buyer@example.com", 100)
	itemID := seedItem(t, db, catID, sellerID, 10, 2)

	// cart was filled while stock was 2, then someone else bought one
	userCart := app.Carts.Get(buyerID)
	require.NoError(t, userCart.Add(itemID, 2))
	require.NoError(t, userCart.Add(itemID, 2))
	_, err := db.Exec("UPDATE items SET quantity = 1 WHERE item_id = ?", itemID)
	require.NoError(t, err)

	w := doJSON(router, http.MethodPost, "/v1/checkout", buyerID, nil)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var stock int
	require.NoError(t, db.QueryRow("SELECT quantity FROM items WHERE item_id = ?", itemID).Scan(&stock))
	assert.Equal(t, 1, stock)
}

func TestAddToCart_OutOfStock(t *testing.T) {
	db := setupTestDB(t)
	_, router := newTestApp(db)

	catID := seedCategory(t, db, "Electronics")
	sellerID := seedUser(t, db, "seller@example.com", 0)
	buyerID := seedUser(t, db, "buyer@example.com", 100)
	itemID := seedItem(t, db, catID, sellerID, 10, 0)

	w := doJSON(router, http.MethodPost, "/v1/cart/items", buyerID, gin.H{"item_id": itemID})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateCartItem_LimitReached(t *testing.T) {
	db := setupTestDB(t)
	app, router := newTestApp(db)

	catID := seedCategory(t, db, "Electronics")
	sellerID := seedUser(t, db, "seller@example.com", 0)
	buyerID := seedUser(t, db, "buyer@example.com", 100)
	itemID := seedItem(t, db, catID, sellerID, 10, 3)

	// fill the cart to the stock ceiling
	userCart := app.Carts.Get(buyerID)
	for i := 0; i < 3; i++ {
		require.NoError(t, userCart.Add(itemID, 3))
	}

	path := fmt.Sprintf("/v1/cart/items/%d", itemID)
	w := doJSON(router, http.MethodPut, path, buyerID, gin.H{"action": "increase"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 3, userCart.Quantity(itemID))
}

func TestViewCart_LiveTotalsAndBalance(t *testing.T) {
	db := setupTestDB(t)
	app, router := newTestApp(db)

	catID := seedCategory(t, db, "Electronics")
	sellerID := seedUser(t, db, "seller@example.com", 0)
	buyerID := seedUser(t, db, "buyer@example.com", 42.50)
	itemID := seedItem(t, db, catID, sellerID, 9.99, 5)

	userCart := app.Carts.Get(buyerID)
	require.NoError(t, userCart.Add(itemID, 5))
	require.NoError(t, userCart.Add(itemID, 5))

	w := doJSON(router, http.MethodGet, "/v1/cart", buyerID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			ItemID    int64   `json:"itemId"`
			Quantity  int     `json:"quantity"`
			LineTotal float64 `json:"lineTotal"`
		} `json:"items"`
		Total         float64 `json:"total"`
		WalletBalance float64 `json:"walletBalance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, itemID, resp.Items[0].ItemID)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.InDelta(t, 19.98, resp.Items[0].LineTotal, 0.001)
	assert.InDelta(t, 19.98, resp.Total, 0.001)
	assert.InDelta(t, 42.50, resp.WalletBalance, 0.001)
}

func TestAddFunds_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	_, router := newTestApp(db)

	buyerID := seedUser(t, db, "buyer@example.com", 0)

	w := doJSON(router, http.MethodPost, "/v1/wallet/funds", buyerID, gin.H{"amount": 37.25})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodGet, "/v1/wallet", buyerID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Balance float64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 37.25, resp.Balance, 0.001)
}

func TestAddFunds_RejectsNonPositiveAmount(t *testing.T) {
	db := setupTestDB(t)
	_, router := newTestApp(db)

	buyerID := seedUser(t, db, "buyer@example.com", 10)

	w := doJSON(router, http.MethodPost, "/v1/wallet/funds", buyerID, gin.H{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/v1/wallet/funds", buyerID, gin.H{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
