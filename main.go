package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/nadiraputri/catering-app/config"
	"github.com/nadiraputri/catering-app/database"
	"github.com/nadiraputri/catering-app/middlewares"
	"github.com/nadiraputri/catering-app/models"
	"github.com/nadiraputri/catering-app/router"
	"github.com/nadiraputri/catering-app/services"
	"github.com/nadiraputri/catering-app/utils"
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

	// Keep the connection reachable from controllers that only need reads
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	snap := services.GetSnapClient()
	if err := snap.ValidateConfig(); err != nil {
		utils.ErrorLogger.Printf("Warning: %v (gateway checkout will fail until it is set)", err)
	}

	r := router.SetupRouter(db, snap)

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

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
		&models.Child{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.MenuSchedule{},
		&models.Order{},
		&models.OrderLineItem{},
		&models.BatchOrder{},
		&models.Payment{},
		&models.CashPayment{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	// total_amount maintenance lives in the database, not the orchestrators
	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
	}
}
