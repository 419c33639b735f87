package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"home-services-server/database"
	"home-services-server/models"
)

// RegisterCatalogRoutes registers the public catalog routes
func RegisterCatalogRoutes(router *gin.RouterGroup) {
	services := router.Group("/services")
	{
		services.GET("", listServices)
		services.GET("/search", searchServices)
		services.GET("/:id", getServiceDetails)
	}

	router.GET("/categories", getCategories)
}

// HomeHandler returns the storefront: the highest-rated service in each
// category that has at least one listing. Recomputed on every request so a
// fresh review is reflected immediately.
func HomeHandler(c *gin.Context) {
	var categories []string
	if err := database.DB.Model(&models.Service{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load services"})
		return
	}

	featured := make([]models.Service, 0, len(categories))
	for _, category := range categories {
		var top models.Service
		if err := database.DB.
			Where("category = ?", category).
			Order("rating DESC, created_at ASC").
			Preload("Provider.User").
			First(&top).Error; err != nil {
			continue
		}
		featured = append(featured, top)
	}

	c.JSON(http.StatusOK, gin.H{
		"featured":   featured,
		"categories": categories,
	})
}

// AboutHandler returns static application metadata
func AboutHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Home Services",
		"description": "A marketplace connecting customers with verified home-service providers",
		"version":     "1.0.0",
	})
}

// listServices returns the full catalog, optionally filtered by category
func listServices(c *gin.Context) {
	query := database.DB.Model(&models.Service{}).Preload("Provider.User")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var listings []models.Service
	if err := query.Order("rating DESC").Find(&listings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": listings,
		"count":    len(listings),
	})
}

// searchServices filters the catalog. Every word of q must appear in the
// title; min_price/max_price bound the price and rating sets a floor. Results
// are ordered cheapest first, ties broken by rating.
func searchServices(c *gin.Context) {
	query := database.DB.Model(&models.Service{}).Preload("Provider.User")

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		for _, word := range strings.Fields(strings.ToLower(q)) {
			query = query.Where("LOWER(title) LIKE ?", "%"+word+"%")
		}
	}

	if raw := c.Query("min_price"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
			return
		}
		query = query.Where("price >= ?", minPrice)
	}

	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
			return
		}
		query = query.Where("price <= ?", maxPrice)
	}

	if raw := c.Query("rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating"})
			return
		}
		query = query.Where("rating >= ?", minRating)
	}

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var results []models.Service
	if err := query.Order("price ASC, rating DESC").Find(&results).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": results,
		"count":    len(results),
	})
}

// getServiceDetails returns a single listing with its provider
func getServiceDetails(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var service models.Service
	if err := database.DB.Preload("Provider.User").First(&service, uint(serviceID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

// getCategories returns the known listing categories
func getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.ServiceCategories()})
}
