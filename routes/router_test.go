package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"home-services-server/config"
	"home-services-server/database"
	"home-services-server/models"
	"home-services-server/utils"
)

// setupTest swaps the global DB for an in-memory sqlite database with a fresh
// schema, returning the handle for direct seeding and assertions.
func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	config.Load()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	database.SetDB(db)
	return db
}

// newTestRouter builds the API surface the way main does, minus the global
// middleware that is irrelevant under test.
func newTestRouter() *gin.Engine {
	router := gin.New()

	router.GET("/", HomeHandler)
	router.GET("/about", AboutHandler)

	api := router.Group("/api/v1")
	{
		RegisterAuthRoutes(api)
		RegisterAccountRoutes(api)
		RegisterCatalogRoutes(api)
		RegisterProviderRoutes(api)
		RegisterOrderRoutes(api)
		RegisterNotificationRoutes(api)
		RegisterComplaintRoutes(api)
		RegisterAdminRoutes(api)
	}

	return router
}

var requestSeq uint32

// doRequest performs a JSON request against the router. Each request gets a
// distinct client address so auth rate limits never bleed between tests.
func doRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	n := atomic.AddUint32(&requestSeq, 1)
	req.RemoteAddr = fmt.Sprintf("10.1.%d.%d:52000", n/250, n%250)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response body: %v (%s)", err, w.Body.String())
	}
	return body
}

// createTestUser inserts a user with a bcrypt-hashed password
func createTestUser(t *testing.T, db *gorm.DB, username, email, password string, isAdmin bool) models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// createTestProvider promotes a user to provider
func createTestProvider(t *testing.T, db *gorm.DB, user models.User, nationalID string) models.Provider {
	t.Helper()

	provider := models.Provider{
		ID:         user.ID,
		NationalID: nationalID,
		Location:   "Test City",
		IsVerified: true,
	}
	if err := db.Create(&provider).Error; err != nil {
		t.Fatalf("Failed to create test provider: %v", err)
	}
	return provider
}

// createTestService inserts a listing for a provider
func createTestService(t *testing.T, db *gorm.DB, provider models.Provider, title, category string, price, rating float64) models.Service {
	t.Helper()

	service := models.Service{
		Title:       title,
		Description: "test listing",
		Price:       price,
		Rating:      rating,
		Category:    category,
		Duration:    60,
		UserID:      provider.ID,
		ProviderID:  provider.ID,
	}
	if err := db.Create(&service).Error; err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}
	return service
}

// tokenFor issues a real access token for a user
func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}
