package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/solera-market/solera/internal/places"
)

func setupPlacesRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	h := NewPlacesHandler(places.NewClient(setupSettingsService(t, db)))

	r := gin.New()
	r.GET("/api/v1/places/autocomplete", h.Autocomplete)
	return r
}

func TestAutocomplete_MissingInput(t *testing.T) {
	router := setupPlacesRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/places/autocomplete", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAutocomplete_IntegrationDisabled(t *testing.T) {
	router := setupPlacesRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/places/autocomplete?input=napa", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
