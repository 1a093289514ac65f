package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bazaro/bazaro-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Item Handlers (Owner-Only) ---
//

// defaultImage is the placeholder used when a listing has no upload.
const defaultImage = "temp.jpg"

// CreateItemInput defines the JSON for listing a new item.
type CreateItemInput struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Quantity      int     `json:"quantity" binding:"gte=0"`
	CategoryID    int64   `json:"categoryId" binding:"required"`
	ImageFilename string  `json:"imageFilename"`
}

// CreateItem is the handler for POST /v1/items
// The new item is owned by the current user: owner_user_id is set and
// seller_id stays NULL, so the catalog resolves the user as its seller.
func (h *Handlers) CreateItem(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image := input.ImageFilename
	if image == "" {
		image = defaultImage
	}

	result, err := h.DB.Exec(`
		INSERT INTO items (name, description, price, quantity, category_id, seller_id, owner_user_id, image_filename)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?)`,
		input.Name, input.Description, input.Price, input.Quantity, input.CategoryID, userID, image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	itemID, _ := result.LastInsertId()

	item := models.Item{
		ID:            itemID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Quantity:      input.Quantity,
		CategoryID:    input.CategoryID,
		OwnerUserID:   &userID,
		ImageFilename: image,
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item listed successfully",
		"item":    item,
	})
}

// DeleteItem is the handler for DELETE /v1/items/:id
// Only the owning user may delete a listing. The stored image file is
// removed along with the row unless it is the shared placeholder.
func (h *Handlers) DeleteItem(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	itemID := c.Param("id")

	var imageFilename string
	err := h.DB.QueryRow(
		"SELECT image_filename FROM items WHERE item_id = ? AND owner_user_id = ?",
		itemID, userID,
	).Scan(&imageFilename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}

	if _, err := h.DB.Exec("DELETE FROM items WHERE item_id = ?", itemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	if imageFilename != "" && imageFilename != defaultImage {
		path := filepath.Join(uploadDir(), imageFilename)
		if _, err := os.Stat(path); err == nil {
			_ = os.Remove(path)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
