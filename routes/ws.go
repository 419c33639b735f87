package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"home-services-server/database"
	"home-services-server/models"
	"home-services-server/websocket"
)

// HandleProviderWebSocket upgrades a provider's connection to the
// notification hub. The token is validated by WebSocketAuthMiddleware; here
// we only check the caller actually has a provider profile.
func HandleProviderWebSocket(c *gin.Context) {
	userID := c.GetUint("user_id")

	var provider models.Provider
	if err := database.DB.First(&provider, userID).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Provider profile required",
			"message": "Only service providers receive push notifications",
		})
		return
	}

	if notificationHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Notifications unavailable"})
		return
	}

	websocket.ServeClient(notificationHub, c.Writer, c.Request, userID)
}
