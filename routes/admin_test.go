package routes

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"home-services-server/models"
)

func fileTestComplaint(t *testing.T, db *gorm.DB, order models.Order) models.Complaint {
	t.Helper()

	complaint := models.Complaint{
		OrderID: order.ID,
		FilerID: order.CustomerID,
		Message: "The provider never showed up at all",
	}
	if err := db.Create(&complaint).Error; err != nil {
		t.Fatalf("Failed to create test complaint: %v", err)
	}
	return complaint
}

func TestAdminLogin(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()
	createTestUser(t, db, "root", "root@example.com", "supersecret1", true)
	createTestUser(t, db, "alice", "alice@example.com", "supersecret1", false)

	w := doRequest(router, http.MethodPost, "/api/v1/admin/auth/login", map[string]interface{}{
		"email":    "root@example.com",
		"password": "supersecret1",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, parseBody(t, w)["tokens"])

	// Right password, wrong role
	w = doRequest(router, http.MethodPost, "/api/v1/admin/auth/login", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "supersecret1",
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()
	user := createTestUser(t, db, "alice", "alice@example.com", "supersecret1", false)

	w := doRequest(router, http.MethodGet, "/api/v1/admin/dashboard/stats", nil, tokenFor(t, user))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/admin/dashboard/stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardStats(t *testing.T) {
	f := newOrderFixture(t)
	router := newTestRouter()
	admin := createTestUser(t, f.db, "root", "root@example.com", "supersecret1", true)

	order := f.placeOrder(t, models.OrderStatusPending)
	fileTestComplaint(t, f.db, order)

	w := doRequest(router, http.MethodGet, "/api/v1/admin/dashboard/stats", nil, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)

	stats := parseBody(t, w)["stats"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["users"]) // customer, provider owner, admin
	assert.Equal(t, float64(1), stats["providers"])
	assert.Equal(t, float64(1), stats["services"])
	assert.Equal(t, float64(1), stats["orders"])
	assert.Equal(t, float64(1), stats["open_complaints"])
}

func TestVerifyProvider(t *testing.T) {
	db := setupTest(t)
	router := newTestRouter()
	admin := createTestUser(t, db, "root", "root@example.com", "supersecret1", true)
	owner := createTestUser(t, db, "pro", "pro@example.com", "supersecret1", false)

	provider := models.Provider{ID: owner.ID, NationalID: "NID-200", Location: "Test City"}
	db.Create(&provider)

	w := doRequest(router, http.MethodPatch,
		fmt.Sprintf("/api/v1/admin/providers/%d/verify", provider.ID), nil, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Provider
	assert.NoError(t, db.First(&reloaded, provider.ID).Error)
	assert.True(t, reloaded.IsVerified)
}

func TestResolveComplaintRefund(t *testing.T) {
	f := newOrderFixture(t)
	router := newTestRouter()
	admin := createTestUser(t, f.db, "root", "root@example.com", "supersecret1", true)

	order := f.placeOrder(t, models.OrderStatusCompleted)
	complaint := fileTestComplaint(t, f.db, order)

	w := doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/complaints/%d/resolve", complaint.ID),
		map[string]interface{}{"action": "refund"}, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Complaint
	assert.NoError(t, f.db.First(&reloaded, complaint.ID).Error)
	assert.True(t, reloaded.Resolved)
	assert.Equal(t, "Customer refunded", reloaded.ActionTaken)
}

func TestResolveComplaintWarn(t *testing.T) {
	f := newOrderFixture(t)
	router := newTestRouter()
	admin := createTestUser(t, f.db, "root", "root@example.com", "supersecret1", true)

	order := f.placeOrder(t, models.OrderStatusCompleted)
	complaint := fileTestComplaint(t, f.db, order)

	w := doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/complaints/%d/resolve", complaint.ID),
		map[string]interface{}{"action": "warn"}, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Complaint
	f.db.First(&reloaded, complaint.ID)
	assert.Equal(t, "Provider warned", reloaded.ActionTaken)

	// The provider survives a warning
	var provider models.Provider
	assert.NoError(t, f.db.First(&provider, f.provider.ID).Error)
}

func TestResolveComplaintOnlyOnce(t *testing.T) {
	f := newOrderFixture(t)
	router := newTestRouter()
	admin := createTestUser(t, f.db, "root", "root@example.com", "supersecret1", true)
	adminToken := tokenFor(t, admin)

	order := f.placeOrder(t, models.OrderStatusCompleted)
	complaint := fileTestComplaint(t, f.db, order)

	w := doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/complaints/%d/resolve", complaint.ID),
		map[string]interface{}{"action": "warn"}, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/complaints/%d/resolve", complaint.ID),
		map[string]interface{}{"action": "refund"}, adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The first action stands
	var reloaded models.Complaint
	f.db.First(&reloaded, complaint.ID)
	assert.Equal(t, "Provider warned", reloaded.ActionTaken)
}

func TestResolveComplaintRejectsUnknownAction(t *testing.T) {
	f := newOrderFixture(t)
	router := newTestRouter()
	admin := createTestUser(t, f.db, "root", "root@example.com", "supersecret1", true)

	order := f.placeOrder(t, models.OrderStatusCompleted)
	complaint := fileTestComplaint(t, f.db, order)

	w := doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/complaints/%d/resolve", complaint.ID),
		map[string]interface{}{"action": "escalate"}, tokenFor(t, admin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveComplaintRemoveProviderCascades(t *testing.T) {
	f := newOrderFixture(t)
	router := newTestRouter()
	admin := createTestUser(t, f.db, "root", "root@example.com", "supersecret1", true)

	openOrder := f.placeOrder(t, models.OrderStatusAccepted)
	doneOrder := f.placeOrder(t, models.OrderStatusCompleted)
	complaint := fileTestComplaint(t, f.db, openOrder)

	w := doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/v1/admin/complaints/%d/resolve", complaint.ID),
		map[string]interface{}{"action": "remove_provider"}, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Complaint
	f.db.First(&reloaded, complaint.ID)
	assert.True(t, reloaded.Resolved)
	assert.Equal(t, "Service provider removed", reloaded.ActionTaken)

	// Provider row is gone, the account is not
	var provider models.Provider
	assert.Error(t, f.db.First(&provider, f.provider.ID).Error)
	var user models.User
	assert.NoError(t, f.db.First(&user, f.owner.ID).Error)

	// Listings are gone
	var serviceCount int64
	f.db.Model(&models.Service{}).Where("provider_id = ?", f.provider.ID).Count(&serviceCount)
	assert.Equal(t, int64(0), serviceCount)

	// Open orders rejected, finished ones untouched
	var open, done models.Order
	f.db.First(&open, openOrder.ID)
	f.db.First(&done, doneOrder.ID)
	assert.Equal(t, models.OrderStatusRejected, open.Status)
	assert.Equal(t, models.OrderStatusCompleted, done.Status)
}

func TestAdminRemoveProviderEndpoint(t *testing.T) {
	f := newOrderFixture(t)
	router := newTestRouter()
	admin := createTestUser(t, f.db, "root", "root@example.com", "supersecret1", true)

	openOrder := f.placeOrder(t, models.OrderStatusPending)

	w := doRequest(router, http.MethodDelete,
		fmt.Sprintf("/api/v1/admin/providers/%d", f.provider.ID), nil, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)

	var provider models.Provider
	assert.Error(t, f.db.First(&provider, f.provider.ID).Error)

	var open models.Order
	f.db.First(&open, openOrder.ID)
	assert.Equal(t, models.OrderStatusRejected, open.Status)
}

func TestListComplaintsFilter(t *testing.T) {
	f := newOrderFixture(t)
	router := newTestRouter()
	admin := createTestUser(t, f.db, "root", "root@example.com", "supersecret1", true)

	fileTestComplaint(t, f.db, f.placeOrder(t, models.OrderStatusCompleted))
	resolved := fileTestComplaint(t, f.db, f.placeOrder(t, models.OrderStatusCompleted))
	f.db.Model(&resolved).Updates(map[string]interface{}{"resolved": true, "action_taken": "Provider warned"})

	w := doRequest(router, http.MethodGet, "/api/v1/admin/complaints", nil, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), parseBody(t, w)["count"])

	w = doRequest(router, http.MethodGet, "/api/v1/admin/complaints?resolved=false", nil, tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), parseBody(t, w)["count"])
}
