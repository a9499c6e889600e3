package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solera-market/solera/internal/audit"
	"github.com/solera-market/solera/internal/service"
	"gorm.io/gorm"
)

// PageHandler serves the CMS page admin surface and the public page reads.
type PageHandler struct {
	svc *service.PageService
	db  *gorm.DB
}

func NewPageHandler(svc *service.PageService, db *gorm.DB) *PageHandler {
	return &PageHandler{svc: svc, db: db}
}

// PageRequest is the body for creating or updating a page.
type PageRequest struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	Content         string `json:"content"`
	MetaDescription string `json:"meta_description"`
	Published       bool   `json:"published"`
	Position        int    `json:"position"`
}

func (r PageRequest) input() service.PageInput {
	return service.PageInput{
		Slug:            r.Slug,
		Title:           r.Title,
		Category:        r.Category,
		Content:         r.Content,
		MetaDescription: r.MetaDescription,
		Published:       r.Published,
		Position:        r.Position,
	}
}

// ListPages godoc
// @Summary List all pages including unpublished drafts
// @Tags pages
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Page
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /platform/pages [get]
func (h *PageHandler) ListPages(c *gin.Context) {
	pages, err := h.svc.List()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

// CreatePage godoc
// @Summary Create a page
// @Tags pages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page body PageRequest true "Page fields"
// @Success 201 {object} models.Page
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /platform/pages [post]
func (h *PageHandler) CreatePage(c *gin.Context) {
	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	page, err := h.svc.Create(req.input())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	_ = audit.LogAction(h.db, getUserID(c), audit.ActionCreatePage, "page:"+page.Slug, nil)
	c.JSON(http.StatusCreated, page)
}

// UpdatePage godoc
// @Summary Update a page
// @Tags pages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Page ID"
// @Param page body PageRequest true "Page fields"
// @Success 200 {object} models.Page
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /platform/pages/{id} [put]
func (h *PageHandler) UpdatePage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid page ID"})
		return
	}

	var req PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	page, err := h.svc.Update(id, req.input())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	_ = audit.LogAction(h.db, getUserID(c), audit.ActionUpdatePage, "page:"+page.Slug, nil)
	c.JSON(http.StatusOK, page)
}

// DeletePage godoc
// @Summary Delete a page
// @Tags pages
// @Security BearerAuth
// @Param id path string true "Page ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /platform/pages/{id} [delete]
func (h *PageHandler) DeletePage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid page ID"})
		return
	}

	if err := h.svc.Delete(id); err != nil {
		handleServiceError(c, err)
		return
	}

	_ = audit.LogAction(h.db, getUserID(c), audit.ActionDeletePage, "page:"+id.String(), nil)
	c.Status(http.StatusNoContent)
}

// GetPublishedPage godoc
// @Summary Get a published page by slug
// @Description Unpublished and missing pages are indistinguishable to callers.
// @Tags pages
// @Produce json
// @Param slug path string true "Page slug"
// @Success 200 {object} models.Page
// @Failure 404 {object} ErrorResponse
// @Router /pages/{slug} [get]
func (h *PageHandler) GetPublishedPage(c *gin.Context) {
	page, err := h.svc.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Page not found"})
			return
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
