package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EncryptedSetting stores a secret configuration value. EncryptedValue holds
// AES-GCM ciphertext in the "enc:v1:" envelope produced by internal/crypto;
// plaintext never reaches this table and never appears in a JSON response
// (the value field is excluded from serialization entirely).
type EncryptedSetting struct {
	ID              uuid.UUID  `gorm:"type:text;primary_key" json:"id"`
	SettingKey      string     `gorm:"uniqueIndex;not null" json:"setting_key"`
	SettingCategory string     `gorm:"not null;index" json:"setting_category"` // e.g., "google", "stripe", "email"
	EncryptedValue  string     `gorm:"not null" json:"-"`
	Description     *string    `json:"description,omitempty"`
	UpdatedBy       *uuid.UUID `gorm:"type:text" json:"updated_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BeforeCreate hook to generate UUID
func (s *EncryptedSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Well-known encrypted setting keys
const (
	SecretKeyGoogleAPIKey        = "google.api_key"
	SecretKeyStripeSecretKey     = "stripe.secret_key"
	SecretKeyStripeWebhookSecret = "stripe.webhook_secret"
	SecretKeyEmailPassword       = "email.password"
)
