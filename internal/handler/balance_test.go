package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/ledger"
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "handler_test.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Balance{},
		&models.Expense{},
		&models.HistoryEntry{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	// FK constraints are on: fixture users must exist before any
	// balance/expense write
	users := []models.User{
		{ID: 1, Name: "Alice Cruz", Username: "alice", PasswordHash: "x"},
		{ID: 2, Name: "Beth Ramos", Username: "beth", PasswordHash: "x"},
	}
	if err := db.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}
	return db
}

func newTestRouter(t *testing.T) (*gin.Engine, *ledger.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	svc := ledger.New(db)
	h := NewBalanceHandler(svc)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/balance/history/:id", h.GetHistory)
	api.GET("/balance/:id", h.GetBalance)
	api.POST("/balance/:id", h.AddBalance)
	api.PUT("/balance/:id", h.EditBalance)
	return r, svc
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w, payload
}

func TestGetBalanceEndpoint(t *testing.T) {
	r, svc := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/balance/1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if payload["error"] != "Balance not found for the given user ID" {
		t.Errorf("error = %q", payload["error"])
	}

	if _, err := svc.AdjustBalance(1, dec("150.25")); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	w, payload = doJSON(t, r, http.MethodGet, "/api/balance/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if payload["balance"] != "150.25" {
		t.Errorf("balance = %v, want 150.25", payload["balance"])
	}
}

func TestGetBalanceBadUserID(t *testing.T) {
	r, _ := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/balance/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if payload["error"] != "User ID is required" {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestAddBalanceEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodPost, "/api/balance/1", `{"added_balance": 100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", w.Code, payload)
	}
	if payload["message"] != "Balance updated and history recorded successfully" {
		t.Errorf("message = %q", payload["message"])
	}
	if payload["new_balance"] != "100" {
		t.Errorf("new_balance = %v, want 100", payload["new_balance"])
	}

	w, payload = doJSON(t, r, http.MethodPost, "/api/balance/1", `{"added_balance": -10}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if payload["error"] != "Valid added balance is required" {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestEditBalanceEndpoint(t *testing.T) {
	r, svc := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodPut, "/api/balance/1", `{"new_balance": 40}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if payload["error"] != "Balance not found for the given user ID" {
		t.Errorf("error = %q", payload["error"])
	}

	if _, err := svc.AdjustBalance(1, dec("100")); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	w, payload = doJSON(t, r, http.MethodPut, "/api/balance/1", `{"new_balance": 40}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", w.Code, payload)
	}
	if payload["new_balance"] != "40" {
		t.Errorf("new_balance = %v, want 40", payload["new_balance"])
	}

	w, _ = doJSON(t, r, http.MethodPut, "/api/balance/1", `{"new_balance": -1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetHistoryEndpoint(t *testing.T) {
	r, svc := newTestRouter(t)

	w, payload := doJSON(t, r, http.MethodGet, "/api/balance/history/1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if payload["error"] != "No history found for the given user ID" {
		t.Errorf("error = %q", payload["error"])
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.AdjustBalance(1, dec("10")); err != nil {
			t.Fatalf("seed history: %v", err)
		}
	}

	w, payload = doJSON(t, r, http.MethodGet, "/api/balance/history/1?page=1&limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", w.Code, payload)
	}
	history, ok := payload["history"].([]interface{})
	if !ok || len(history) != 2 {
		t.Fatalf("history = %v, want 2 entries", payload["history"])
	}
	pagination, ok := payload["pagination"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing pagination: %v", payload)
	}
	if pagination["total"] != float64(3) || pagination["totalPages"] != float64(2) {
		t.Errorf("pagination = %v, want total 3 totalPages 2", pagination)
	}

	w, payload = doJSON(t, r, http.MethodGet, "/api/balance/history/1?page=0", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if payload["error"] != "Invalid page number" {
		t.Errorf("error = %q", payload["error"])
	}
}
