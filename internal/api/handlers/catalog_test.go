package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
)

func setupCatalogRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCatalogHandler(db)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/vendors", h.ListVendors)
		v1.GET("/vendors/:slug", h.GetVendor)
		v1.GET("/vendors/:slug/products", h.ListVendorProducts)
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:slug", h.GetProduct)
		v1.POST("/admin/vendors", h.CreateVendor)
		v1.POST("/admin/products", h.CreateProduct)
	}
	return r
}

func createTestVendor(t *testing.T, db *gorm.DB, slug string, active bool) *models.Vendor {
	t.Helper()
	vendor := models.Vendor{Slug: slug, Name: slug, Active: active}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("failed to create vendor: %v", err)
	}
	return &vendor
}

func TestListVendors_ActiveOnly(t *testing.T) {
	db := setupTestDB(t)
	router := setupCatalogRouter(db)

	createTestVendor(t, db, "ridgeline-cellars", true)
	createTestVendor(t, db, "closed-distillery", false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/vendors", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var vendors []models.Vendor
	if err := json.Unmarshal(w.Body.Bytes(), &vendors); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(vendors) != 1 || vendors[0].Slug != "ridgeline-cellars" {
		t.Errorf("expected only the active vendor, got %+v", vendors)
	}
}

func TestGetVendor_InactiveHidden(t *testing.T) {
	db := setupTestDB(t)
	router := setupCatalogRouter(db)
	createTestVendor(t, db, "closed-distillery", false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/vendors/closed-distillery", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("inactive vendor must 404, got %d", w.Code)
	}
}

func TestCreateVendor_DuplicateSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	router := setupCatalogRouter(db)
	createTestVendor(t, db, "ridgeline-cellars", true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/admin/vendors",
		strings.NewReader(`{"slug":"ridgeline-cellars","name":"Ridgeline Cellars"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateProduct_UnknownVendorRejected(t *testing.T) {
	db := setupTestDB(t)
	router := setupCatalogRouter(db)

	body := `{"vendor_id":"0b3f8a44-3f85-4f7e-9a0a-111111111111","slug":"rye-750","name":"Straight Rye","category":"spirits","price_cents":4599}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProductLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := setupCatalogRouter(db)
	vendor := createTestVendor(t, db, "ridgeline-cellars", true)

	body := fmt.Sprintf(`{"vendor_id":%q,"slug":"estate-pinot-2021","name":"Estate Pinot Noir 2021","category":"wine","price_cents":3850,"abv":13.5,"volume_ml":750,"stock":24}`, vendor.ID)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/vendors/ridgeline-cellars/products", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var products []models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(products) != 1 || products[0].PriceCents != 3850 {
		t.Errorf("unexpected products: %+v", products)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/v1/products/estate-pinot-2021", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var product models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &product); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if product.Vendor.Slug != "ridgeline-cellars" {
		t.Errorf("expected vendor preloaded, got %+v", product.Vendor)
	}
}
