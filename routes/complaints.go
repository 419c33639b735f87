package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"home-services-server/database"
	"home-services-server/middleware"
	"home-services-server/models"
)

// RegisterComplaintRoutes registers customer complaint routes
func RegisterComplaintRoutes(router *gin.RouterGroup) {
	complaints := router.Group("/complaints")
	complaints.Use(middleware.AuthMiddleware())
	{
		complaints.POST("", fileComplaint)
		complaints.GET("", listMyComplaints)
	}
}

// fileComplaint records a grievance against one of the caller's own orders
func fileComplaint(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var req models.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	var order models.Order
	if err := database.DB.First(&order, req.OrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if order.CustomerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only complain about your own orders"})
		return
	}

	complaint := models.Complaint{
		OrderID: order.ID,
		FilerID: user.ID,
		Message: middleware.SanitizeInput(req.Message),
	}

	if err := database.DB.Create(&complaint).Error; err != nil {
		log.Printf("❌ Failed to file complaint for order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file complaint"})
		return
	}

	log.Printf("✅ Complaint %d filed by user %d against order %d", complaint.ID, user.ID, order.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Complaint filed successfully",
		"complaint": complaint,
	})
}

// listMyComplaints returns the complaints the caller has filed
func listMyComplaints(c *gin.Context) {
	userID := c.GetUint("user_id")

	var complaints []models.Complaint
	if err := database.DB.
		Where("filer_id = ?", userID).
		Preload("Order.Service").
		Order("created_at DESC").
		Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": complaints,
		"count":      len(complaints),
	})
}
