package main

import (
	"log"
	"os"

	"github.com/bazaro/bazaro-golang/internal/cart"
	"github.com/bazaro/bazaro-golang/internal/database"
	"github.com/bazaro/bazaro-golang/internal/handlers"
	"github.com/bazaro/bazaro-golang/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connection pool established")

	app := &handlers.Handlers{
		DB:    db,
		Carts: cart.NewStore(),
	}

	router := routes.SetupRouter(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Bazaro API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
