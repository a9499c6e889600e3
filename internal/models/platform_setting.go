package models

import (
	"time"
)

// PlatformSetting stores platform-wide configuration as key-value pairs.
// Values are JSON-encoded; typed access goes through the settings store.
// Rows flagged IsPublic are exposed through the public settings projection,
// everything else stays server-side.
type PlatformSetting struct {
	Key       string    `gorm:"primarykey;not null" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	IsPublic  bool      `gorm:"not null;default:false" json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Well-known platform setting keys
const (
	SettingKeyInstanceID              = "instance_id"
	SettingKeyPlatformName            = "platform_name"
	SettingKeyAgeVerificationRequired = "age_verification_required"
	SettingKeyMinAgeForAlcohol        = "min_age_for_alcohol"

	SettingKeyGoogleEnabled          = "google.enabled"
	SettingKeyGoogleServicePlaces    = "google.services.places"
	SettingKeyGoogleServiceMaps      = "google.services.maps"
	SettingKeyGoogleServiceGeocoding = "google.services.geocoding"

	SettingKeyStripeMode           = "stripe.mode"
	SettingKeyStripeFeePercent     = "stripe.fee_percent"
	SettingKeyStripeFeeFixedCents  = "stripe.fee_fixed_cents"
	SettingKeyStripePublishableKey = "stripe.publishable_key"

	SettingKeyEmailEnabled     = "email.enabled"
	SettingKeyEmailHost        = "email.host"
	SettingKeyEmailPort        = "email.port"
	SettingKeyEmailFromAddress = "email.from_address"
	SettingKeyEmailFromName    = "email.from_name"
	SettingKeyEmailUsername    = "email.username"
)
