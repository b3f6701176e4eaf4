package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shakecraft/shake-app/config"
	"github.com/shakecraft/shake-app/database"
	"github.com/shakecraft/shake-app/middlewares"
	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/router"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Keep the connection reachable from request handlers.
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if err := database.Seed(db); err != nil {
		utils.ErrorLogger.Printf("Error seeding catalog: %v", err)
	}

	// 50 requests per second per IP
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Ingredient{},
		&models.IngredientNutrition{},
		&models.IngredientPricing{},
		&models.Drink{},
		&models.Promo{},
		&models.PromoBundle{},
		&models.PromoVariant{},
		&models.PromoFreeAddon{},
		&models.PromoUsage{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemIngredient{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
