package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"home-services-server/database"
	"home-services-server/middleware"
	"home-services-server/models"
)

// RegisterProviderRoutes registers provider application and listing routes
func RegisterProviderRoutes(router *gin.RouterGroup) {
	providers := router.Group("/providers")
	providers.Use(middleware.AuthMiddleware())
	{
		providers.POST("/apply", becomeProvider)
		providers.GET("/me", getMyProviderProfile)
		providers.GET("/me/services", getMyServices)
	}

	services := router.Group("/services")
	services.Use(middleware.AuthMiddleware())
	{
		services.POST("", createService)
		services.PUT("/:id", updateService)
		services.DELETE("/:id", deleteService)
	}
}

// providerForUser loads the caller's provider profile, replying 403 when the
// user never registered as one.
func providerForUser(c *gin.Context) (models.Provider, bool) {
	userID := c.GetUint("user_id")

	var provider models.Provider
	if err := database.DB.First(&provider, userID).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Provider profile required",
			"message": "Register as a service provider first",
		})
		return models.Provider{}, false
	}
	return provider, true
}

// becomeProvider creates a provider profile for the authenticated user
func becomeProvider(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var req models.BecomeProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	var existing models.Provider
	if err := database.DB.First(&existing, user.ID).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Already a provider",
			"message": "This account already has a provider profile",
		})
		return
	}

	var dup models.Provider
	if err := database.DB.Where("national_id = ?", req.NationalID).First(&dup).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "National ID already registered",
			"message": "A provider with this national ID already exists",
		})
		return
	}

	provider := models.Provider{
		ID:         user.ID,
		NationalID: req.NationalID,
		Bio:        middleware.SanitizeInput(req.Bio),
		Location:   middleware.SanitizeInput(req.Location),
	}

	if err := database.DB.Create(&provider).Error; err != nil {
		log.Printf("❌ Failed to create provider for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create provider profile"})
		return
	}

	log.Printf("✅ User %d registered as provider", user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Provider profile created",
		"provider": provider,
	})
}

// getMyProviderProfile returns the caller's provider profile
func getMyProviderProfile(c *gin.Context) {
	provider, ok := providerForUser(c)
	if !ok {
		return
	}

	database.DB.Preload("User").First(&provider, provider.ID)
	c.JSON(http.StatusOK, gin.H{"provider": provider})
}

// getMyServices returns the caller's service listings
func getMyServices(c *gin.Context) {
	provider, ok := providerForUser(c)
	if !ok {
		return
	}

	var listings []models.Service
	if err := database.DB.Where("provider_id = ?", provider.ID).Order("created_at DESC").Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": listings,
		"count":    len(listings),
	})
}

// createService adds a listing to the caller's provider catalog
func createService(c *gin.Context) {
	provider, ok := providerForUser(c)
	if !ok {
		return
	}

	var req models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	service := models.Service{
		Title:       middleware.SanitizeInput(req.Title),
		Description: middleware.SanitizeInput(req.Description),
		Price:       req.Price,
		Category:    req.Category,
		Duration:    req.Duration,
		UserID:      provider.ID,
		ProviderID:  provider.ID,
	}

	if err := database.DB.Create(&service).Error; err != nil {
		log.Printf("❌ Failed to create service for provider %d: %v", provider.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	log.Printf("✅ Service %d created by provider %d", service.ID, provider.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Service created successfully",
		"service": service,
	})
}

// updateService edits a listing owned by the caller
func updateService(c *gin.Context) {
	provider, ok := providerForUser(c)
	if !ok {
		return
	}

	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var service models.Service
	if err := database.DB.First(&service, uint(serviceID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	if service.ProviderID != provider.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own services"})
		return
	}

	var req models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	service.Title = middleware.SanitizeInput(req.Title)
	service.Description = middleware.SanitizeInput(req.Description)
	service.Price = req.Price
	service.Category = req.Category
	service.Duration = req.Duration

	if err := database.DB.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service updated successfully",
		"service": service,
	})
}

// deleteService removes a listing owned by the caller
func deleteService(c *gin.Context) {
	provider, ok := providerForUser(c)
	if !ok {
		return
	}

	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var service models.Service
	if err := database.DB.First(&service, uint(serviceID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	if service.ProviderID != provider.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own services"})
		return
	}

	var pendingOrders int64
	database.DB.Model(&models.Order{}).
		Where("service_id = ? AND status NOT IN ?", service.ID,
			[]models.OrderStatus{models.OrderStatusCompleted, models.OrderStatusRejected}).
		Count(&pendingOrders)
	if pendingOrders > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Service has open orders",
			"message": "Complete or reject open orders before deleting this service",
		})
		return
	}

	if err := database.DB.Delete(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}

	log.Printf("✅ Service %d deleted by provider %d", service.ID, provider.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
