package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"home-services-server/database"
	"home-services-server/middleware"
	"home-services-server/models"
	"home-services-server/utils"
)

// RegisterAccountRoutes registers profile management routes
func RegisterAccountRoutes(router *gin.RouterGroup) {
	account := router.Group("/account")
	account.Use(middleware.AuthMiddleware())
	{
		account.GET("", getAccount)
		account.PUT("", updateAccount)
		account.POST("/picture", uploadProfilePicture)
	}
}

// getAccount returns the authenticated user's account details
func getAccount(c *gin.Context) {
	user := c.MustGet("user").(models.User)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// updateAccount changes the user's username and email
func updateAccount(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	if req.Email != user.Email {
		var existing models.User
		if err := database.DB.Where("email = ? AND id <> ?", req.Email, user.ID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Email already registered",
				"message": "An account with this email already exists",
			})
			return
		}
	}

	user.Username = middleware.SanitizeInput(req.Username)
	user.Email = req.Email

	if err := database.DB.Save(&user).Error; err != nil {
		log.Printf("❌ Failed to update account %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account updated successfully",
		"user":    user,
	})
}

// uploadProfilePicture stores a new profile image and records its URL
func uploadProfilePicture(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	file, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "A picture file is required",
		})
		return
	}

	if !utils.ValidateImageFile(file) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid image",
			"message": "Image must be a jpg, png or webp file under 5MB",
		})
		return
	}

	url, err := utils.UploadProfilePicture(c.Request.Context(), file, user.ID)
	if err != nil {
		log.Printf("❌ Profile picture upload failed for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload picture"})
		return
	}

	if err := database.DB.Model(&user).Update("image_file", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save picture"})
		return
	}

	log.Printf("✅ Profile picture updated for user %d", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message":    "Profile picture updated",
		"image_file": url,
	})
}
