package routes

import (
	"net/http"
	"os"

	"github.com/bazaro/bazaro-golang/internal/handlers"
	"github.com/bazaro/bazaro-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the storefront frontend to call the API.
// CORS_ORIGIN restricts the allowed origin; the default is open.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware())

	// Product images are served straight off disk, same folder the
	// upload handler writes to.
	imageDir := os.Getenv("UPLOAD_DIR")
	if imageDir == "" {
		imageDir = "./product_images"
	}
	router.Static("/product-images", imageDir)

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Catalog Routes (Public) ---
		v1.GET("/items", h.SearchItems)
		v1.GET("/items/:id", h.GetItem)
		v1.GET("/sellers/:id", h.GetSeller)
		v1.GET("/categories", h.GetAllCategories)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.GET("/me", h.GetMyProfile)

			// --- Cart ---
			auth.GET("/cart", h.GetCart)
			auth.POST("/cart/items", h.AddToCart)
			auth.PUT("/cart/items/:item_id", h.UpdateCartItem)
			auth.DELETE("/cart/items/:item_id", h.DeleteCartItem)

			// --- Checkout & Orders ---
			auth.POST("/checkout", h.Checkout)
			auth.GET("/orders", h.ListMyOrders)

			// --- Wallet ---
			auth.GET("/wallet", h.GetMyWallet)
			auth.POST("/wallet/funds", h.AddFunds)

			// --- Listings ---
			auth.POST("/items", h.CreateItem)
			auth.DELETE("/items/:id", h.DeleteItem)
			auth.POST("/upload", h.UploadImage)
		}
	}

	return router
}
