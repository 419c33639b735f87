package routes

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchServicesFilters(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()

	owner := createTestUser(t, db, "pro", "pro@example.com", "supersecret1", false)
	provider := createTestProvider(t, db, owner, "NID-100")

	createTestService(t, db, provider, "Budget Clean", "Cleaning", 15, 4.5)
	inRangeLow := createTestService(t, db, provider, "Standard Clean", "Cleaning", 25, 3.5)
	inRangeHigh := createTestService(t, db, provider, "Premium Clean", "Cleaning", 40, 4.8)
	createTestService(t, db, provider, "Low Rated Clean", "Cleaning", 30, 2.0)
	createTestService(t, db, provider, "Luxury Clean", "Cleaning", 80, 5.0)

	w := doRequest(router, http.MethodGet,
		"/api/v1/services/search?min_price=20&max_price=50&rating=3", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	results := body["services"].([]interface{})
	assert.Len(t, results, 2)

	first := results[0].(map[string]interface{})
	second := results[1].(map[string]interface{})
	assert.Equal(t, float64(inRangeLow.ID), first["id"])
	assert.Equal(t, float64(inRangeHigh.ID), second["id"])
}

func TestSearchServicesWordConjunction(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()

	owner := createTestUser(t, db, "pro", "pro@example.com", "supersecret1", false)
	provider := createTestProvider(t, db, owner, "NID-100")

	match := createTestService(t, db, provider, "Deep House Cleaning", "Cleaning", 45, 4)
	createTestService(t, db, provider, "House Painting", "Painting", 60, 4)
	createTestService(t, db, provider, "Deep Fryer Repair", "Appliance Repair", 30, 4)

	w := doRequest(router, http.MethodGet, "/api/v1/services/search?q=deep+house", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	results := body["services"].([]interface{})
	assert.Len(t, results, 1)
	assert.Equal(t, float64(match.ID), results[0].(map[string]interface{})["id"])
}

func TestSearchServicesRejectsBadBounds(t *testing.T) {
	setupTest(t)
	router := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/services/search?min_price=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHomeTopRatedPerCategory(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()

	owner := createTestUser(t, db, "pro", "pro@example.com", "supersecret1", false)
	provider := createTestProvider(t, db, owner, "NID-100")

	createTestService(t, db, provider, "Okay Clean", "Cleaning", 20, 3.0)
	bestClean := createTestService(t, db, provider, "Great Clean", "Cleaning", 30, 4.8)
	onlyPlumbing := createTestService(t, db, provider, "Pipe Fix", "Plumbing", 35, 4.0)

	w := doRequest(router, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	featured := body["featured"].([]interface{})
	assert.Len(t, featured, 2)

	// Categories come back alphabetically: Cleaning before Plumbing
	first := featured[0].(map[string]interface{})
	second := featured[1].(map[string]interface{})
	assert.Equal(t, float64(bestClean.ID), first["id"])
	assert.Equal(t, float64(onlyPlumbing.ID), second["id"])
}

func TestHomeReflectsNewRatingsImmediately(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()

	owner := createTestUser(t, db, "pro", "pro@example.com", "supersecret1", false)
	provider := createTestProvider(t, db, owner, "NID-100")

	top := createTestService(t, db, provider, "First Clean", "Cleaning", 20, 4.0)
	rival := createTestService(t, db, provider, "Second Clean", "Cleaning", 25, 3.0)

	w := doRequest(router, http.MethodGet, "/", nil, "")
	body := parseBody(t, w)
	featured := body["featured"].([]interface{})
	assert.Equal(t, float64(top.ID), featured[0].(map[string]interface{})["id"])

	db.Model(&rival).Update("rating", 4.9)

	w = doRequest(router, http.MethodGet, "/", nil, "")
	body = parseBody(t, w)
	featured = body["featured"].([]interface{})
	assert.Equal(t, float64(rival.ID), featured[0].(map[string]interface{})["id"])
}

func TestGetServiceDetails(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()

	owner := createTestUser(t, db, "pro", "pro@example.com", "supersecret1", false)
	provider := createTestProvider(t, db, owner, "NID-100")
	service := createTestService(t, db, provider, "Pipe Fix", "Plumbing", 35, 4.0)

	w := doRequest(router, http.MethodGet, "/api/v1/services/1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, service.Title, body["service"].(map[string]interface{})["title"])

	w = doRequest(router, http.MethodGet, "/api/v1/services/999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCategories(t *testing.T) {
	setupTest(t)
	router := newTestRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/categories", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := parseBody(t, w)
	assert.NotEmpty(t, body["categories"])
}
