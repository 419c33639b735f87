package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"home-services-server/database"
	"home-services-server/middleware"
	"home-services-server/models"
)

// RegisterNotificationRoutes registers the provider notification feed
func RegisterNotificationRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", getNotifications)
		notifications.GET("/unread-count", getUnreadCount)
	}
}

// getNotifications returns the caller's unviewed assigned orders, newest first
func getNotifications(c *gin.Context) {
	provider, ok := providerForUser(c)
	if !ok {
		return
	}

	var orders []models.Order
	if err := database.DB.
		Where("provider_id = ? AND viewed = ?", provider.ID, false).
		Preload("Service").Preload("Customer").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": orders,
		"count":         len(orders),
	})
}

// getUnreadCount returns how many assigned orders the caller has not opened
func getUnreadCount(c *gin.Context) {
	provider, ok := providerForUser(c)
	if !ok {
		return
	}

	var count int64
	if err := database.DB.Model(&models.Order{}).
		Where("provider_id = ? AND viewed = ?", provider.ID, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
