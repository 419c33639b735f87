package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"home-services-server/database"
	"home-services-server/middleware"
	"home-services-server/models"
	"home-services-server/utils"
)

// RegisterAdminRoutes registers the admin-only surface
func RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.POST("/auth/login", middleware.AuthRateLimitMiddleware(), adminLogin)

		protected := admin.Group("/")
		protected.Use(middleware.AdminMiddleware())
		{
			protected.GET("/dashboard/stats", getDashboardStats)
			protected.GET("/users", listUsers)
			protected.GET("/providers", listProviders)
			protected.PATCH("/providers/:id/verify", verifyProvider)
			protected.DELETE("/providers/:id", removeProviderHandler)
			protected.GET("/complaints", listComplaints)
			protected.POST("/complaints/:id/resolve", resolveComplaint)
		}
	}
}

// adminLogin authenticates an admin account. Non-admin credentials are
// rejected even when the password is right.
func adminLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Printf("🚫 Failed admin login for %s from %s", req.Email, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(user.ID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	log.Printf("✅ Admin logged in: %s", user.Email)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"tokens":  tokens,
	})
}

// getDashboardStats returns headline counts for the admin dashboard
func getDashboardStats(c *gin.Context) {
	var stats struct {
		Users          int64 `json:"users"`
		Providers      int64 `json:"providers"`
		Services       int64 `json:"services"`
		Orders         int64 `json:"orders"`
		OpenComplaints int64 `json:"open_complaints"`
	}

	database.DB.Model(&models.User{}).Count(&stats.Users)
	database.DB.Model(&models.Provider{}).Count(&stats.Providers)
	database.DB.Model(&models.Service{}).Count(&stats.Services)
	database.DB.Model(&models.Order{}).Count(&stats.Orders)
	database.DB.Model(&models.Complaint{}).Where("resolved = ?", false).Count(&stats.OpenComplaints)

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// listUsers returns all accounts, newest first
func listUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// listProviders returns all provider profiles with their accounts
func listProviders(c *gin.Context) {
	var providers []models.Provider
	if err := database.DB.Preload("User").Preload("Services").
		Order("created_at DESC").Find(&providers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch providers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": providers,
		"count":     len(providers),
	})
}

// verifyProvider flips the verified flag on a provider profile
func verifyProvider(c *gin.Context) {
	providerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid provider ID"})
		return
	}

	var provider models.Provider
	if err := database.DB.First(&provider, uint(providerID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}

	if err := database.DB.Model(&provider).Update("is_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify provider"})
		return
	}

	log.Printf("✅ Provider %d verified", provider.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Provider verified"})
}

// removeProvider deletes a provider and everything hanging off it in one
// transaction: open orders are rejected, listings deleted, then the profile
// itself. The user account survives as a plain customer.
func removeProvider(tx *gorm.DB, providerID uint) error {
	if err := tx.Model(&models.Order{}).
		Where("provider_id = ? AND status NOT IN ?", providerID,
			[]models.OrderStatus{models.OrderStatusCompleted, models.OrderStatusRejected}).
		Update("status", models.OrderStatusRejected).Error; err != nil {
		return err
	}

	if err := tx.Where("provider_id = ?", providerID).Delete(&models.Service{}).Error; err != nil {
		return err
	}

	return tx.Delete(&models.Provider{}, providerID).Error
}

// removeProviderHandler is the direct admin removal endpoint
func removeProviderHandler(c *gin.Context) {
	providerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid provider ID"})
		return
	}

	var provider models.Provider
	if err := database.DB.First(&provider, uint(providerID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return removeProvider(tx, provider.ID)
	})
	if err != nil {
		log.Printf("❌ Failed to remove provider %d: %v", provider.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove provider"})
		return
	}

	log.Printf("✅ Provider %d removed by admin", provider.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Provider removed"})
}

// listComplaints returns all complaints, open first then newest
func listComplaints(c *gin.Context) {
	query := database.DB.
		Preload("Order.Service").Preload("Filer").
		Order("resolved ASC, created_at DESC")

	if raw := c.Query("resolved"); raw != "" {
		resolved, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resolved filter"})
			return
		}
		query = query.Where("resolved = ?", resolved)
	}

	var complaints []models.Complaint
	if err := query.Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": complaints,
		"count":      len(complaints),
	})
}

// resolveComplaint applies exactly one terminal action to an open complaint.
// A complaint resolves once; a second attempt is rejected.
func resolveComplaint(c *gin.Context) {
	complaintID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var req models.ResolveComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	var complaint models.Complaint
	if err := database.DB.Preload("Order").First(&complaint, uint(complaintID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
		return
	}

	if complaint.Resolved {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Complaint already resolved",
			"message": "Action taken: " + complaint.ActionTaken,
		})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if req.Action == models.ComplaintActionRemoveProvider {
			if err := removeProvider(tx, complaint.Order.ProviderID); err != nil {
				return err
			}
		}

		complaint.Resolved = true
		complaint.ActionTaken = req.Action.Label()
		return tx.Save(&complaint).Error
	})
	if err != nil {
		log.Printf("❌ Failed to resolve complaint %d: %v", complaint.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve complaint"})
		return
	}

	log.Printf("✅ Complaint %d resolved: %s", complaint.ID, complaint.ActionTaken)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Complaint resolved",
		"complaint": complaint,
	})
}
