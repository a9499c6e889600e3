package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a single listing in a vendor's catalog. Prices are stored in
// cents to avoid floating-point money.
type Product struct {
	ID          uuid.UUID      `gorm:"type:text;primary_key" json:"id"`
	VendorID    uuid.UUID      `gorm:"type:text;not null;index" json:"vendor_id"`
	Vendor      Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string         `gorm:"not null" json:"name"`
	Category    string         `gorm:"not null;index" json:"category"` // "wine", "spirits", "beer", ...
	Description string         `gorm:"type:text" json:"description"`
	PriceCents  int64          `gorm:"not null" json:"price_cents"`
	ABV         float64        `json:"abv"`
	VolumeML    int            `json:"volume_ml"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	Active      bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to generate UUID
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
