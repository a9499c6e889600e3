package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Page is a CMS content page (about, legal, shipping policy, ...).
// Slug is unique across the platform; only Published pages are served on the
// public read path.
type Page struct {
	ID              uuid.UUID      `gorm:"type:text;primary_key" json:"id"`
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title           string         `gorm:"not null" json:"title"`
	Category        string         `gorm:"not null;index" json:"category"` // e.g., "about", "legal", "help"
	Content         string         `gorm:"type:text" json:"content"`
	MetaDescription string         `json:"meta_description"`
	Published       bool           `gorm:"not null;default:false" json:"published"`
	Position        int            `gorm:"not null;default:0" json:"position"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to generate UUID
func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
