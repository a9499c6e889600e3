package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records admin actions for compliance review. Every write through
// the platform-settings and page admin surfaces lands here.
type AuditLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:text;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action      string    `gorm:"not null" json:"action"`        // e.g., "update_setting", "create_page"
	Resource    string    `gorm:"not null" json:"resource"`      // e.g., "setting:stripe.mode", "page:about-us"
	DetailsJSON string    `gorm:"type:text" json:"details_json"` // Additional context in JSON
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
}
