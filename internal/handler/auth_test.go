package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/models"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(t *testing.T) (*gin.Engine, string, *AuthHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	uploadDir := t.TempDir()
	h := NewAuthHandler(db, "test-secret", 1, uploadDir, 5)

	r := gin.New()
	r.POST("/api/users", h.Register)
	r.POST("/api/users/login", h.Login)
	return r, uploadDir, h
}

func registerForm(t *testing.T, username, password string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"fname":     "Charlie",
		"lname":     "Diaz",
		"username":  username,
		"password":  password,
		"password2": password,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	fw, err := w.CreateFormFile("image", "avatar.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("not-a-real-png")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func doRegister(t *testing.T, r *gin.Engine, username, password string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	body, contentType := registerForm(t, username, password)
	req := httptest.NewRequest(http.MethodPost, "/api/users", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, decodeBody(t, w)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	return len(entries)
}

func TestRegisterEndpoint(t *testing.T) {
	r, uploadDir, h := newAuthRouter(t)

	w, payload := doRegister(t, r, "Charlie123", "secret-pw")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %v", w.Code, payload)
	}
	if payload["message"] != "Registration Successful" {
		t.Errorf("message = %q", payload["message"])
	}
	if n := countFiles(t, uploadDir); n != 1 {
		t.Errorf("upload dir has %d files, want 1", n)
	}

	// the handle is stored lowercase so the unique index is case-insensitive
	var user models.User
	if err := h.DB.Where("username = ?", "charlie123").First(&user).Error; err != nil {
		t.Fatalf("stored user not found by lowercase handle: %v", err)
	}
}

// A duplicate handle must be rejected by the unique index with a 400, and the
// avatar written for the failed attempt must not stay on disk.
func TestRegisterDuplicateCleansUpAvatar(t *testing.T) {
	r, uploadDir, _ := newAuthRouter(t)

	w, _ := doRegister(t, r, "dave", "secret-pw")
	if w.Code != http.StatusOK {
		t.Fatalf("first register status = %d, want 200", w.Code)
	}

	// case only differs; normalization makes it the same handle
	w, payload := doRegister(t, r, "Dave", "other-pw")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d, want 400: %v", w.Code, payload)
	}
	if payload["error"] != "User Already Exists" {
		t.Errorf("error = %q", payload["error"])
	}
	if n := countFiles(t, uploadDir); n != 1 {
		t.Errorf("upload dir has %d files after failed register, want 1", n)
	}
}

func TestLoginEndpoint(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	if w, _ := doRegister(t, r, "erin", "secret-pw"); w.Code != http.StatusOK {
		t.Fatalf("register status = %d, want 200", w.Code)
	}

	w, payload := doJSON(t, r, http.MethodPost, "/api/users/login",
		`{"username": "Erin", "password": "secret-pw"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("login status = %d, want 201: %v", w.Code, payload)
	}
	if payload["token"] == "" || payload["token"] == nil {
		t.Error("login response carries no token")
	}

	w, payload = doJSON(t, r, http.MethodPost, "/api/users/login",
		`{"username": "erin", "password": "wrong-pw"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad login status = %d, want 400", w.Code)
	}
	if payload["error"] != "Incorrect email or password" {
		t.Errorf("error = %q", payload["error"])
	}
}
