package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/solera-market/solera/internal/api/middleware"
	"github.com/solera-market/solera/internal/auth"
	"github.com/solera-market/solera/internal/models"
	"github.com/solera-market/solera/internal/rbac"
	"gorm.io/gorm"
)

// setupAuthRouter wires the login endpoint and one admin route through the
// real token middleware and admin check.
func setupAuthRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *rbac.Enforcer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enforcer, err := rbac.NewEnforcer(db)
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}
	authenticator := auth.NewBasicAuthenticator(db, "handlers-test-jwt-secret")
	adminHandler := NewAdminHandler(db, enforcer)

	r := gin.New()
	r.POST("/api/v1/auth/login", Login(authenticator, db))

	admin := r.Group("/api/v1")
	admin.Use(authenticator.Middleware())
	admin.Use(middleware.RequireAdmin(enforcer))
	admin.GET("/admin/users", adminHandler.ListUsers)

	return r, enforcer
}

func createLoginUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := setupTestDB(t)
	createLoginUser(t, db, "owner", "right-password")
	router, _ := setupAuthRouter(t, db)

	w := postLogin(router, `{"username":"owner","password":"wrong-password"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.AuditLog{}).Where("action = ?", "login_failed").Count(&count)
	if count != 1 {
		t.Errorf("expected 1 login_failed audit row, got %d", count)
	}
}

func TestLoginReturnsToken(t *testing.T) {
	db := setupTestDB(t)
	createLoginUser(t, db, "owner", "right-password")
	router, _ := setupAuthRouter(t, db)

	w := postLogin(router, `{"username":"owner","password":"right-password"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp auth.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}
	if resp.User == nil || resp.User.Username != "owner" {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}
}

func TestAdminRouteRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	router, _ := setupAuthRouter(t, db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/admin/users", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAdminRouteWithLoginToken(t *testing.T) {
	db := setupTestDB(t)
	user := createLoginUser(t, db, "owner", "right-password")
	router, enforcer := setupAuthRouter(t, db)

	if err := enforcer.MakeAdmin(user.ID); err != nil {
		t.Fatalf("MakeAdmin: %v", err)
	}

	w := postLogin(router, `{"username":"owner","password":"right-password"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d: %s", w.Code, w.Body.String())
	}
	var resp auth.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with admin token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminRouteNonAdminToken(t *testing.T) {
	db := setupTestDB(t)
	createLoginUser(t, db, "shopper", "right-password")
	router, _ := setupAuthRouter(t, db)

	w := postLogin(router, `{"username":"shopper","password":"right-password"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d: %s", w.Code, w.Body.String())
	}
	var resp auth.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}

	w = httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin token, got %d", w.Code)
	}
}
