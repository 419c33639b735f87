package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"home-services-server/database"
	"home-services-server/middleware"
	"home-services-server/models"
	"home-services-server/websocket"
)

var notificationHub *websocket.Hub

// SetNotificationHub wires the websocket hub used for order push notifications
func SetNotificationHub(h *websocket.Hub) {
	notificationHub = h
}

// RegisterOrderRoutes registers order lifecycle routes
func RegisterOrderRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.POST("", placeOrder)
		orders.GET("", listMyOrders)
		orders.GET("/assigned", listAssignedOrders)
		orders.GET("/:id", getOrderDetails)

		orders.POST("/:id/accept", transitionHandler(models.OrderStatusAccepted))
		orders.POST("/:id/reject", transitionHandler(models.OrderStatusRejected))
		orders.POST("/:id/on-the-way", transitionHandler(models.OrderStatusOnTheWay))
		orders.POST("/:id/reached", transitionHandler(models.OrderStatusReached))
		orders.POST("/:id/complete", transitionHandler(models.OrderStatusCompleted))

		orders.GET("/:id/review", getOrderReview)
		orders.POST("/:id/review", submitOrderReview)
	}
}

// placeOrder books a service for the authenticated customer. The price is
// copied from the listing at checkout so later edits never reprice past orders.
func placeOrder(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	var service models.Service
	if err := database.DB.First(&service, req.ServiceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	if service.ProviderID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "You cannot order your own service",
		})
		return
	}

	order := models.Order{
		Location:     middleware.SanitizeInput(req.Location),
		ScheduledFor: req.ScheduledFor,
		Status:       models.OrderStatusPending,
		Price:        service.Price,
		CustomerID:   user.ID,
		ServiceID:    service.ID,
		ProviderID:   service.ProviderID,
	}

	if err := database.DB.Create(&order).Error; err != nil {
		log.Printf("❌ Failed to create order for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	database.DB.Preload("Service").Preload("Customer").First(&order, order.ID)

	if notificationHub != nil {
		notificationHub.NotifyOrderPlaced(order.ProviderID, order)
	}

	log.Printf("✅ Order %d placed by user %d for service %d", order.ID, user.ID, service.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// listMyOrders returns the orders the caller placed as a customer
func listMyOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	query := database.DB.Where("customer_id = ?", userID).
		Preload("Service").Preload("Provider.User").
		Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// listAssignedOrders returns the orders assigned to the caller as a provider
func listAssignedOrders(c *gin.Context) {
	provider, ok := providerForUser(c)
	if !ok {
		return
	}

	query := database.DB.Where("provider_id = ?", provider.ID).
		Preload("Service").Preload("Customer").
		Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// orderForCaller loads an order and checks the caller is a party to it,
// replying with the right error otherwise.
func orderForCaller(c *gin.Context) (models.Order, bool) {
	userID := c.GetUint("user_id")

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return models.Order{}, false
	}

	var order models.Order
	if err := database.DB.
		Preload("Service").Preload("Customer").Preload("Provider.User").
		First(&order, uint(orderID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return models.Order{}, false
	}

	if order.CustomerID != userID && order.ProviderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a party to this order"})
		return models.Order{}, false
	}

	return order, true
}

// getOrderDetails returns one order. When the assigned provider opens it the
// viewed flag flips on, which clears it from the notification feed.
func getOrderDetails(c *gin.Context) {
	userID := c.GetUint("user_id")

	order, ok := orderForCaller(c)
	if !ok {
		return
	}

	if order.ProviderID == userID && !order.Viewed {
		if err := database.DB.Model(&order).Update("viewed", true).Error; err != nil {
			log.Printf("⚠️ Failed to mark order %d viewed: %v", order.ID, err)
		} else {
			order.Viewed = true
		}
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// transitionHandler builds the handler for one status-transition endpoint.
// Only the assigned provider may move an order, and only along the legal
// lifecycle; anything else is rejected without touching the row.
func transitionHandler(next models.OrderStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		order, ok := orderForCaller(c)
		if !ok {
			return
		}

		if order.ProviderID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the assigned provider can update this order"})
			return
		}

		if err := order.Transition(next); err != nil {
			if errors.Is(err, models.ErrIllegalTransition) {
				c.JSON(http.StatusConflict, gin.H{
					"error":   "Illegal status transition",
					"message": "Cannot move order from " + string(order.Status) + " to " + string(next),
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}

		if err := database.DB.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", order.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}

		if notificationHub != nil {
			notificationHub.SendToUser(order.CustomerID, &websocket.Message{
				Type: "order_status",
				Data: gin.H{"order_id": order.ID, "status": order.Status},
			})
		}

		log.Printf("✅ Order %d moved to %s by provider %d", order.ID, order.Status, userID)
		c.JSON(http.StatusOK, gin.H{
			"message": "Order updated",
			"order":   order,
		})
	}
}

// getOrderReview returns the review on an order, if any
func getOrderReview(c *gin.Context) {
	order, ok := orderForCaller(c)
	if !ok {
		return
	}

	if order.Rating == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No review for this order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rating": order.Rating,
		"review": order.Review,
	})
}

// submitOrderReview attaches a rating and optional text to a completed order,
// then recomputes the service's aggregate rating from all reviewed orders.
func submitOrderReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	order, ok := orderForCaller(c)
	if !ok {
		return
	}

	if order.CustomerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the ordering customer can review"})
		return
	}

	if order.Status != models.OrderStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Order not completed",
			"message": "Reviews can only be left on completed orders",
		})
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	if err := order.SetRating(*req.Rating); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid rating",
			"message": err.Error(),
		})
		return
	}
	order.Review = middleware.SanitizeInput(req.Review)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"rating": order.Rating,
				"review": order.Review,
			}).Error; err != nil {
			return err
		}
		return recomputeServiceRating(tx, order.ServiceID)
	})
	if err != nil {
		log.Printf("❌ Failed to save review for order %d: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	log.Printf("✅ Review saved for order %d (rating %.1f)", order.ID, *order.Rating)
	c.JSON(http.StatusOK, gin.H{
		"message": "Review saved",
		"order":   order,
	})
}

// recomputeServiceRating refreshes a listing's aggregate rating from the
// average of its reviewed orders.
func recomputeServiceRating(tx *gorm.DB, serviceID uint) error {
	var avg *float64
	if err := tx.Model(&models.Order{}).
		Where("service_id = ? AND rating IS NOT NULL", serviceID).
		Select("AVG(rating)").
		Scan(&avg).Error; err != nil {
		return err
	}
	if avg == nil {
		return nil
	}

	var service models.Service
	if err := tx.First(&service, serviceID).Error; err != nil {
		return err
	}
	service.Rating = *avg
	return tx.Save(&service).Error
}
