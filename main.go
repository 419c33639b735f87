package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"home-services-server/config"
	"home-services-server/database"
	"home-services-server/jobs"
	"home-services-server/middleware"
	"home-services-server/routes"
	ws "home-services-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	seedDemoData()

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security middleware stack
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Public storefront
	router.GET("/", routes.HomeHandler)
	router.GET("/about", routes.AboutHandler)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Home Services Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Notification hub
	hub := ws.NewHub()
	go hub.Run()
	routes.SetNotificationHub(hub)

	// Provider WebSocket endpoint for order notifications
	router.GET("/api/v1/ws/provider", middleware.WebSocketAuthMiddleware(), routes.HandleProviderWebSocket)

	// API routes
	api := router.Group("/api/v1")
	{
		routes.RegisterAuthRoutes(api)
		routes.RegisterAccountRoutes(api)
		routes.RegisterCatalogRoutes(api)
		routes.RegisterProviderRoutes(api)
		routes.RegisterOrderRoutes(api)
		routes.RegisterNotificationRoutes(api)
		routes.RegisterComplaintRoutes(api)
		routes.RegisterAdminRoutes(api)
	}

	// Background jobs
	cleanupJob := jobs.NewTokenCleanupJob()
	cleanupJob.Start()
	defer cleanupJob.Stop()

	port := config.AppConfig.Server.Port
	log.Printf("🚀 Home Services Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
