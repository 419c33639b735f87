package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"home-services-server/database"
	"home-services-server/middleware"
	"home-services-server/models"
	"home-services-server/services"
	"home-services-server/utils"
)

var jwtService = services.NewJWTService()

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", middleware.AuthRateLimitMiddleware(), register)
		auth.POST("/login", middleware.AuthRateLimitMiddleware(), login)
		auth.POST("/refresh", refreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(), logout)
		auth.GET("/me", middleware.AuthMiddleware(), getCurrentUser)
		auth.PUT("/change-password", middleware.AuthMiddleware(), changePassword)
	}
}

// register creates a new user account
func register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "Passwords do not match",
		})
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Email already registered",
			"message": "An account with this email already exists",
		})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user := models.User{
		Username:     middleware.SanitizeInput(req.Username),
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		// Unique-index backstop for registrations racing past the lookup
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Email already registered",
				"message": "An account with this email already exists",
			})
			return
		}
		log.Printf("❌ Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(user.ID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		log.Printf("❌ Failed to generate tokens for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	log.Printf("✅ New user registered: %s (id=%d)", user.Email, user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user":    user,
		"tokens":  tokens,
	})
}

// login authenticates a user and issues a token pair
func login(c *gin.Context) {
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
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid credentials",
			"message": "Email or password is incorrect",
		})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Printf("🚫 Failed login attempt for %s from %s", req.Email, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid credentials",
			"message": "Email or password is incorrect",
		})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(user.ID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		log.Printf("❌ Failed to generate tokens for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate tokens"})
		return
	}

	log.Printf("✅ User logged in: %s (id=%d)", user.Email, user.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"tokens":  tokens,
	})
}

// refreshToken exchanges a refresh token for a fresh access token
func refreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "refresh_token is required",
		})
		return
	}

	tokens, err := jwtService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid refresh token",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// logout revokes the presented refresh token, or all of the user's tokens
// when none is supplied
func logout(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)

	var err error
	if req.RefreshToken != "" {
		err = jwtService.RevokeRefreshToken(req.RefreshToken)
	} else {
		err = jwtService.RevokeAllUserTokens(userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	log.Printf("✅ User %d logged out", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// getCurrentUser returns the authenticated user's profile
func getCurrentUser(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var provider models.Provider
	isProvider := database.DB.First(&provider, user.ID).Error == nil

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"is_provider": isProvider,
	})
}

// changePassword updates the user's password after verifying the current one
func changePassword(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Invalid credentials",
			"message": "Current password is incorrect",
		})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	if err := database.DB.Model(&user).Update("password_hash", hash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	// Force re-authentication everywhere else
	jwtService.RevokeAllUserTokens(user.ID)

	log.Printf("✅ Password changed for user %d", user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
