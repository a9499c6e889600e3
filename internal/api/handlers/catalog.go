package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solera-market/solera/internal/audit"
	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
)

// CatalogHandler serves the public vendor/product catalog and the admin
// creation endpoints.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListVendors godoc
// @Summary List active vendors
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Vendor
// @Failure 500 {object} ErrorResponse
// @Router /vendors [get]
func (h *CatalogHandler) ListVendors(c *gin.Context) {
	var vendors []models.Vendor
	if err := h.db.Where("active = ?", true).Order("name").Find(&vendors).Error; err != nil {
		slog.Error("failed to list vendors", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list vendors"})
		return
	}
	c.JSON(http.StatusOK, vendors)
}

// GetVendor godoc
// @Summary Get an active vendor by slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Vendor slug"
// @Success 200 {object} models.Vendor
// @Failure 404 {object} ErrorResponse
// @Router /vendors/{slug} [get]
func (h *CatalogHandler) GetVendor(c *gin.Context) {
	vendor, err := h.activeVendorBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Vendor not found"})
			return
		}
		slog.Error("failed to load vendor", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load vendor"})
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// ListVendorProducts godoc
// @Summary List a vendor's active products
// @Tags catalog
// @Produce json
// @Param slug path string true "Vendor slug"
// @Success 200 {array} models.Product
// @Failure 404 {object} ErrorResponse
// @Router /vendors/{slug}/products [get]
func (h *CatalogHandler) ListVendorProducts(c *gin.Context) {
	vendor, err := h.activeVendorBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Vendor not found"})
			return
		}
		slog.Error("failed to load vendor", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load vendor"})
		return
	}

	var products []models.Product
	if err := h.db.Where("vendor_id = ? AND active = ?", vendor.ID, true).
		Order("name").Find(&products).Error; err != nil {
		slog.Error("failed to list vendor products", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListProducts godoc
// @Summary List active products
// @Tags catalog
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	query := h.db.Where("active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var products []models.Product
	if err := query.Order("name").Find(&products).Error; err != nil {
		slog.Error("failed to list products", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary Get an active product by slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Router /products/{slug} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var product models.Product
	err := h.db.Preload("Vendor").
		Where("slug = ? AND active = ?", c.Param("slug"), true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Product not found"})
			return
		}
		slog.Error("failed to load product", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateVendorRequest is the body for creating a vendor.
type CreateVendorRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// CreateVendor godoc
// @Summary Create a vendor
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param vendor body CreateVendorRequest true "Vendor fields"
// @Success 201 {object} models.Vendor
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/vendors [post]
func (h *CatalogHandler) CreateVendor(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Slug and name are required"})
		return
	}

	var count int64
	if err := h.db.Model(&models.Vendor{}).Where("slug = ?", req.Slug).Count(&count).Error; err != nil {
		slog.Error("failed to check vendor slug", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create vendor"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "A vendor with this slug already exists"})
		return
	}

	vendor := models.Vendor{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Active:      true,
	}
	if err := h.db.Create(&vendor).Error; err != nil {
		slog.Error("failed to create vendor", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create vendor"})
		return
	}

	_ = audit.LogAction(h.db, getUserID(c), audit.ActionCreateVendor, "vendor:"+vendor.Slug, nil)
	c.JSON(http.StatusCreated, vendor)
}

// CreateProductRequest is the body for creating a product.
type CreateProductRequest struct {
	VendorID    uuid.UUID `json:"vendor_id" binding:"required"`
	Slug        string    `json:"slug" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents" binding:"required"`
	ABV         float64   `json:"abv"`
	VolumeML    int       `json:"volume_ml"`
	Stock       int       `json:"stock"`
}

// CreateProduct godoc
// @Summary Create a product
// @Tags catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Product fields"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Vendor, slug, name, category and price are required"})
		return
	}
	if req.PriceCents < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Price must not be negative"})
		return
	}

	var vendorCount int64
	if err := h.db.Model(&models.Vendor{}).Where("id = ?", req.VendorID).Count(&vendorCount).Error; err != nil {
		slog.Error("failed to check vendor", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create product"})
		return
	}
	if vendorCount == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Vendor does not exist"})
		return
	}

	var count int64
	if err := h.db.Model(&models.Product{}).Where("slug = ?", req.Slug).Count(&count).Error; err != nil {
		slog.Error("failed to check product slug", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create product"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "A product with this slug already exists"})
		return
	}

	product := models.Product{
		VendorID:    req.VendorID,
		Slug:        req.Slug,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ABV:         req.ABV,
		VolumeML:    req.VolumeML,
		Stock:       req.Stock,
		Active:      true,
	}
	if err := h.db.Create(&product).Error; err != nil {
		slog.Error("failed to create product", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create product"})
		return
	}

	_ = audit.LogAction(h.db, getUserID(c), audit.ActionCreateProduct, "product:"+product.Slug, nil)
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) activeVendorBySlug(slug string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := h.db.Where("slug = ? AND active = ?", slug, true).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}
