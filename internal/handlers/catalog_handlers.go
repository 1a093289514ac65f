package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bazaro/bazaro-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

//
// --- Catalog Handlers (Public) ---
//

// ItemSummary is one row of the listing grid.
type ItemSummary struct {
	models.Item
	CategoryName string `json:"categoryName"`
}

// SearchItems is the handler for GET /v1/items
// Optional filters: ?search= substring-matches name or description,
// ?category= matches the category exactly. No ranking; rows come back
// in storage order.
func (h *Handlers) SearchItems(c *gin.Context) {
	search := c.Query("search")
	category := c.Query("category")

	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString(`
		SELECT i.item_id, i.name, i.description, i.price, i.quantity,
		       i.category_id, i.seller_id, i.owner_user_id, i.image_filename,
		       COALESCE(c.name, '')
		FROM items i
		LEFT JOIN categories c ON i.category_id = c.category_id
		WHERE 1=1`)

	if search != "" {
		queryBuilder.WriteString(" AND (i.name LIKE ? OR i.description LIKE ?)")
		term := "%" + search + "%"
		args = append(args, term, term)
	}
	if category != "" {
		queryBuilder.WriteString(" AND i.category_id = ?")
		args = append(args, category)
	}

	rows, err := h.DB.Query(queryBuilder.String(), args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	items := []ItemSummary{}
	for rows.Next() {
		var item ItemSummary
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Price, &item.Quantity,
			&item.CategoryID, &item.SellerID, &item.OwnerUserID, &item.ImageFilename,
			&item.CategoryName,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan item row"})
			return
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// resolveSeller follows exactly one of the item's two ownership keys
// and returns the uniform seller view.
func (h *Handlers) resolveSeller(item models.Item) (models.SellerView, error) {
	if item.SellerID != nil {
		var s models.Seller
		err := h.DB.QueryRow(
			"SELECT seller_id, seller_name, email, phone_number, address, rating FROM sellers WHERE seller_id = ?",
			*item.SellerID,
		).Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.Rating)
		if err != nil {
			return models.SellerView{}, err
		}
		return models.ExternalSellerView(s), nil
	}

	if item.OwnerUserID == nil {
		// neither ownership key is set; treat as an orphaned listing
		return models.SellerView{}, sql.ErrNoRows
	}

	var u models.User
	err := h.DB.QueryRow(
		"SELECT user_id, name, email FROM users WHERE user_id = ?",
		*item.OwnerUserID,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		return models.SellerView{}, err
	}
	return models.UserSellerView(u), nil
}

// GetItem is the handler for GET /v1/items/:id
// It returns the item, its category and the resolved seller view.
func (h *Handlers) GetItem(c *gin.Context) {
	itemID := c.Param("id")

	var item models.Item
	err := h.DB.QueryRow(
		`SELECT item_id, name, description, price, quantity, category_id,
		        seller_id, owner_user_id, image_filename
		 FROM items WHERE item_id = ?`, itemID,
	).Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.Quantity,
		&item.CategoryID, &item.SellerID, &item.OwnerUserID, &item.ImageFilename,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	var category models.Category
	err = h.DB.QueryRow(
		"SELECT category_id, name FROM categories WHERE category_id = ?",
		item.CategoryID,
	).Scan(&category.ID, &category.Name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}
	category.Slug = slug.Make(category.Name)

	seller, err := h.resolveSeller(item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Seller not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve seller"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":     item,
		"category": category,
		"seller":   seller,
	})
}

// GetSeller is the handler for GET /v1/sellers/:id
// ?user=1 selects the registered-user variant of the seller identity;
// the response carries the seller view plus everything they sell.
func (h *Handlers) GetSeller(c *gin.Context) {
	sellerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid seller id"})
		return
	}
	isUser := c.Query("user") == "1"

	var view models.SellerView
	var itemFilter string

	if isUser {
		var u models.User
		err = h.DB.QueryRow(
			"SELECT user_id, name, email FROM users WHERE user_id = ?", sellerID,
		).Scan(&u.ID, &u.Name, &u.Email)
		view = models.UserSellerView(u)
		itemFilter = "owner_user_id"
	} else {
		var s models.Seller
		err = h.DB.QueryRow(
			"SELECT seller_id, seller_name, email, phone_number, address, rating FROM sellers WHERE seller_id = ?",
			sellerID,
		).Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.Rating)
		view = models.ExternalSellerView(s)
		itemFilter = "seller_id"
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Seller not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch seller"})
		return
	}

	rows, err := h.DB.Query(
		`SELECT item_id, name, description, price, quantity, category_id,
		        seller_id, owner_user_id, image_filename
		 FROM items WHERE `+itemFilter+" = ?", sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch seller items"})
		return
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Price, &item.Quantity,
			&item.CategoryID, &item.SellerID, &item.OwnerUserID, &item.ImageFilename,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan item row"})
			return
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"seller": view,
		"items":  items,
	})
}

// GetAllCategories is the handler for GET /v1/categories
func (h *Handlers) GetAllCategories(c *gin.Context) {
	rows, err := h.DB.Query("SELECT category_id, name FROM categories")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan category"})
			return
		}
		cat.Slug = slug.Make(cat.Name)
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
