package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/terraflow/scm-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type testEnv struct {
	db  *gorm.DB
	srv *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.MaterialRequest{},
		&model.Order{},
		&model.Notification{},
	))
	s := New(db, testSecret, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{db: db, srv: ts}
}

func (e *testEnv) seedUser(t *testing.T, name string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@terraflow.test", Role: role}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func tokenFor(t *testing.T, u *model.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprint(u.ID),
		"role": string(u.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, http.MethodGet, "/api/notifications", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/notifications", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "admin", model.RoleAdmin)

	claims := jwt.MapClaims{
		"sub":  fmt.Sprint(u.ID),
		"role": string(u.Role),
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	resp, _ := env.request(t, http.MethodGet, "/api/notifications", tok, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDirectCreateIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", model.RoleAdmin)
	customer := env.seedUser(t, "customer", model.RoleCustomer)

	body := map[string]interface{}{
		"user_id": customer.ID,
		"type":    "order_update",
		"title":   "Manual note",
		"message": "hello",
	}

	resp, _ := env.request(t, http.MethodPost, "/api/notifications", tokenFor(t, customer), body)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, decoded := env.request(t, http.MethodPost, "/api/notifications", tokenFor(t, admin), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, true, decoded["success"])

	// malformed payload
	resp, _ = env.request(t, http.MethodPost, "/api/notifications", tokenFor(t, admin), map[string]interface{}{"title": "no type"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// unknown recipient
	resp, _ = env.request(t, http.MethodPost, "/api/notifications", tokenFor(t, admin), map[string]interface{}{
		"user_id": 999, "type": "order_update", "title": "x",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListScopingLimitAndUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", model.RoleAdmin)
	supplier := env.seedUser(t, "supplier", model.RoleSupplier)

	for i := 0; i < 8; i++ {
		env.request(t, http.MethodPost, "/api/notifications", tokenFor(t, admin), map[string]interface{}{
			"user_id": supplier.ID, "type": "material_request", "title": fmt.Sprintf("n%d", i),
		})
	}
	env.request(t, http.MethodPost, "/api/notifications", tokenFor(t, admin), map[string]interface{}{
		"user_id": admin.ID, "type": "stock_alert", "title": "mine",
	})

	resp, decoded := env.request(t, http.MethodGet, "/api/notifications?limit=5", tokenFor(t, supplier), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decoded["data"].(map[string]interface{})
	list := data["notifications"].([]interface{})
	require.Len(t, list, 5)
	require.Equal(t, float64(8), data["unreadCount"])

	// the admin's own row never leaks into the supplier's view
	for _, raw := range list {
		n := raw.(map[string]interface{})
		require.NotEqual(t, "mine", n["title"])
	}
}

func TestMarkReadAndDeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", model.RoleAdmin)
	supplier := env.seedUser(t, "supplier", model.RoleSupplier)

	_, decoded := env.request(t, http.MethodPost, "/api/notifications", tokenFor(t, admin), map[string]interface{}{
		"user_id": supplier.ID, "type": "material_request", "title": "x",
	})
	id := uint64(decoded["data"].(map[string]interface{})["id"].(float64))

	// not the owner: 404, not 403
	resp, _ := env.request(t, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", id), tokenFor(t, admin), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", id), tokenFor(t, supplier), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// idempotent
	resp, _ = env.request(t, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", id), tokenFor(t, supplier), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", id), tokenFor(t, admin), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.request(t, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", id), tokenFor(t, supplier), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCleanupAndStats(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", model.RoleAdmin)

	for i := 0; i < 3; i++ {
		env.request(t, http.MethodPost, "/api/notifications", tokenFor(t, admin), map[string]interface{}{
			"user_id": admin.ID, "type": "stock_alert", "title": "x", "priority": "urgent",
		})
	}
	old := time.Now().Add(-40 * 24 * time.Hour)
	require.NoError(t, env.db.Model(&model.Notification{}).Where("id = ?", 1).Update("created_at", old).Error)

	resp, decoded := env.request(t, http.MethodDelete, "/api/notifications/old/cleanup?days=30", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(1), decoded["data"].(map[string]interface{})["deleted"])

	resp, decoded = env.request(t, http.MethodGet, "/api/notifications/stats", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decoded["data"].(map[string]interface{})
	require.Equal(t, float64(2), stats["total"])
	require.Equal(t, float64(2), stats["unread"])
	require.Equal(t, float64(2), stats["urgentUnread"])
}

func TestMaterialRequestFlowEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", model.RoleAdmin)
	supplier := env.seedUser(t, "supplier", model.RoleSupplier)

	resp, decoded := env.request(t, http.MethodPost, "/api/products", tokenFor(t, admin), map[string]interface{}{
		"name": "Steel Rod", "sku": "SR-1", "price": "99.50", "stock": 20, "min_stock": 5, "supplier_id": supplier.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID := uint64(decoded["data"].(map[string]interface{})["id"].(float64))

	resp, decoded = env.request(t, http.MethodPost, "/api/material-requests", tokenFor(t, admin), map[string]interface{}{
		"product_id": productID, "quantity": "12.5", "note": "running low",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	requestID := decoded["data"].(map[string]interface{})["id"].(float64)

	// supplier sees the addressed notification
	_, decoded = env.request(t, http.MethodGet, "/api/notifications", tokenFor(t, supplier), nil)
	list := decoded["data"].(map[string]interface{})["notifications"].([]interface{})
	require.Len(t, list, 1)
	n := list[0].(map[string]interface{})
	require.Equal(t, "material_request", n["type"])
	require.Equal(t, requestID, n["relatedId"])

	// supplier approves; the admin is notified
	resp, _ = env.request(t, http.MethodPatch, fmt.Sprintf("/api/material-requests/%d/status", int(requestID)), tokenFor(t, supplier), map[string]interface{}{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, decoded = env.request(t, http.MethodGet, "/api/notifications", tokenFor(t, admin), nil)
	list = decoded["data"].(map[string]interface{})["notifications"].([]interface{})
	require.Len(t, list, 1)
	n = list[0].(map[string]interface{})
	require.Equal(t, "material_update", n["type"])

	// admin cannot drive the supplier-only transition
	resp, _ = env.request(t, http.MethodPatch, fmt.Sprintf("/api/material-requests/%d/status", int(requestID)), tokenFor(t, admin), map[string]interface{}{
		"status": "approved",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrderFlowEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", model.RoleAdmin)
	customer := env.seedUser(t, "customer", model.RoleCustomer)

	resp, decoded := env.request(t, http.MethodPost, "/api/orders", tokenFor(t, customer), map[string]interface{}{
		"total_amount": "149.99",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID := int(decoded["data"].(map[string]interface{})["id"].(float64))

	resp, _ = env.request(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", orderID), tokenFor(t, admin), map[string]interface{}{
		"status": "shipped",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, decoded = env.request(t, http.MethodGet, "/api/notifications", tokenFor(t, customer), nil)
	data := decoded["data"].(map[string]interface{})
	list := data["notifications"].([]interface{})
	require.Len(t, list, 1)
	n := list[0].(map[string]interface{})
	require.Equal(t, "order_update", n["type"])
	require.Equal(t, "order", n["relatedType"])
	require.Equal(t, float64(1), data["unreadCount"])
}
