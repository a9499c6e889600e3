package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a platform account. Marketplace shoppers and admins share
// the same table; admin privilege lives in RBAC, not here.
type User struct {
	ID            uuid.UUID      `gorm:"type:text;primary_key" json:"id"`
	Username      string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName   string         `json:"display_name"`
	AgeVerifiedAt *time.Time     `json:"age_verified_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
