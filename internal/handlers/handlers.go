package handlers

import (
	"database/sql"

	"github.com/bazaro/bazaro-golang/internal/cart"
)

// Handlers holds the shared dependencies for all HTTP handlers.
type Handlers struct {
	DB    *sql.DB     // connection pool
	Carts *cart.Store // per-session shopping carts
}
