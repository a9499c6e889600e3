package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "auth-test-jwt-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func TestLoginUnknownUser(t *testing.T) {
	a := NewBasicAuthenticator(setupTestDB(t), testJWTSecret)

	_, err := a.Login("nobody", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "merchant", "correct-horse")
	a := NewBasicAuthenticator(db, testJWTSecret)

	_, err := a.Login("merchant", "wrong-horse")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "merchant", "correct-horse")
	a := NewBasicAuthenticator(db, testJWTSecret)

	resp, err := a.Login("merchant", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, resp.User.ID)
	}

	claims, err := a.validateToken(resp.Token)
	if err != nil {
		t.Fatalf("validateToken: %v", err)
	}
	if claims.Username != "merchant" {
		t.Fatalf("expected username in claims, got %q", claims.Username)
	}
}

// setupMiddlewareRouter mounts a protected route that echoes the
// authenticated username.
func setupMiddlewareRouter(a *BasicAuthenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", a.Middleware(), func(c *gin.Context) {
		user, err := a.GetUserFromContext(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return r
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	a := NewBasicAuthenticator(setupTestDB(t), testJWTSecret)
	router := setupMiddlewareRouter(a)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	a := NewBasicAuthenticator(setupTestDB(t), testJWTSecret)
	router := setupMiddlewareRouter(a)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Token abc123")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	a := NewBasicAuthenticator(setupTestDB(t), testJWTSecret)
	router := setupMiddlewareRouter(a)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddlewareRejectsTokenSignedWithOtherSecret(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "merchant", "correct-horse")

	other := NewBasicAuthenticator(db, "some-other-secret")
	resp, err := other.Login("merchant", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	a := NewBasicAuthenticator(db, testJWTSecret)
	router := setupMiddlewareRouter(a)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddlewareAcceptsBearerToken(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "merchant", "correct-horse")
	a := NewBasicAuthenticator(db, testJWTSecret)
	router := setupMiddlewareRouter(a)

	resp, err := a.Login("merchant", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMiddlewareAcceptsSessionCookie(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "merchant", "correct-horse")
	a := NewBasicAuthenticator(db, testJWTSecret)
	router := setupMiddlewareRouter(a)

	resp, err := a.Login("merchant", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: resp.Token})
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
