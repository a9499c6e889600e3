package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
)

// PageService contains the business logic for CMS page operations.
type PageService struct {
	db *gorm.DB
}

// NewPageService creates a new PageService.
func NewPageService(db *gorm.DB) *PageService {
	return &PageService{db: db}
}

// PageInput carries the writable page fields for create and update.
type PageInput struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	Content         string `json:"content"`
	MetaDescription string `json:"meta_description"`
	Published       bool   `json:"published"`
	Position        int    `json:"position"`
}

func (in *PageInput) validate() error {
	if strings.TrimSpace(in.Slug) == "" {
		return &ValidationError{Message: "slug is required"}
	}
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Message: "title is required"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return &ValidationError{Message: "category is required"}
	}
	return nil
}

// List returns all pages, including unpublished ones. Admin surface only.
func (s *PageService) List() ([]models.Page, error) {
	var pages []models.Page
	if err := s.db.Order("category, position, created_at").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// GetPublishedBySlug returns a published page for the public read path.
// Unpublished pages are indistinguishable from absent ones.
func (s *PageService) GetPublishedBySlug(slug string) (*models.Page, error) {
	var page models.Page
	err := s.db.Where("slug = ? AND published = ?", slug, true).First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	return &page, nil
}

// Create inserts a new page. A duplicate slug is a ConflictError; the
// uniqueness check runs before the insert so no row is written on conflict.
func (s *PageService) Create(in PageInput) (*models.Page, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Page{}).Where("slug = ?", in.Slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if count > 0 {
		return nil, &ConflictError{Message: fmt.Sprintf("page with slug %q already exists", in.Slug)}
	}

	page := models.Page{
		Slug:            in.Slug,
		Title:           in.Title,
		Category:        in.Category,
		Content:         in.Content,
		MetaDescription: in.MetaDescription,
		Published:       in.Published,
		Position:        in.Position,
	}
	if err := s.db.Create(&page).Error; err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &page, nil
}

// Update modifies an existing page. Changing the slug to one held by another
// page is a ConflictError.
func (s *PageService) Update(id uuid.UUID, in PageInput) (*models.Page, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var page models.Page
	if err := s.db.First(&page, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	if in.Slug != page.Slug {
		var count int64
		if err := s.db.Model(&models.Page{}).Where("slug = ? AND id <> ?", in.Slug, id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
		}
		if count > 0 {
			return nil, &ConflictError{Message: fmt.Sprintf("page with slug %q already exists", in.Slug)}
		}
	}

	page.Slug = in.Slug
	page.Title = in.Title
	page.Category = in.Category
	page.Content = in.Content
	page.MetaDescription = in.MetaDescription
	page.Published = in.Published
	page.Position = in.Position

	if err := s.db.Save(&page).Error; err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}
	return &page, nil
}

// Delete soft-deletes a page.
func (s *PageService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Page{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete page: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
