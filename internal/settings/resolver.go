package settings

import (
	"context"
	"fmt"

	"github.com/solera-market/solera/internal/models"
)

// Defaults applied when the corresponding plain setting is absent.
const (
	DefaultStripeMode          = "test"
	DefaultStripeFeePercent    = 2.9
	DefaultStripeFeeFixedCents = 30
	DefaultEmailPort           = 587
	DefaultMinAgeForAlcohol    = 21
	DefaultPlatformName        = "Solera"
)

// GoogleServices lists which Google APIs the platform has switched on.
type GoogleServices struct {
	Places    bool `json:"places"`
	Maps      bool `json:"maps"`
	Geocoding bool `json:"geocoding"`
}

// GoogleConfig is the resolved Google integration configuration. Immutable
// once constructed; a disabled integration is a value with Enabled=false,
// not an error.
type GoogleConfig struct {
	Enabled  bool           `json:"enabled"`
	APIKey   string         `json:"api_key"`
	Services GoogleServices `json:"services"`
}

// StripeConfig is the resolved Stripe integration configuration.
// IsConfigured reports whether both keys are present; callers must branch on
// it rather than expect an error.
type StripeConfig struct {
	Mode           string  `json:"mode"` // "test" or "live"
	PublishableKey string  `json:"publishable_key"`
	SecretKey      string  `json:"-"`
	WebhookSecret  string  `json:"-"`
	FeePercent     float64 `json:"fee_percent"`
	FeeFixedCents  int64   `json:"fee_fixed_cents"`
	IsConfigured   bool    `json:"is_configured"`
}

// PlatformFee returns the platform fee in cents for a charge amount,
// rounded down.
func (c StripeConfig) PlatformFee(amountCents int64) int64 {
	return int64(float64(amountCents)*c.FeePercent/100) + c.FeeFixedCents
}

// EmailConfig is the resolved SMTP configuration.
type EmailConfig struct {
	Enabled      bool   `json:"enabled"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"-"`
	FromAddress  string `json:"from_address"`
	FromName     string `json:"from_name"`
	IsConfigured bool   `json:"is_configured"`
}

// Addr returns the host:port dial address.
func (c EmailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// resolveGoogle assembles the Google config from plain settings plus the
// decrypted API key. Absent settings resolve to the disabled variant; only
// store failures (db down, decryption failure) return an error.
func (s *Service) resolveGoogle(ctx context.Context) (GoogleConfig, error) {
	enabled, err := s.store.GetBool(ctx, models.SettingKeyGoogleEnabled, false)
	if err != nil {
		return GoogleConfig{}, err
	}
	if !enabled {
		return GoogleConfig{}, nil
	}

	apiKey, err := s.store.GetSecret(ctx, models.SecretKeyGoogleAPIKey)
	if err != nil {
		if isNotFound(err) {
			// Enabled but keyless: treat as disabled so public routes keep
			// returning well-formed bodies.
			return GoogleConfig{}, nil
		}
		return GoogleConfig{}, err
	}

	places, err := s.store.GetBool(ctx, models.SettingKeyGoogleServicePlaces, false)
	if err != nil {
		return GoogleConfig{}, err
	}
	maps, err := s.store.GetBool(ctx, models.SettingKeyGoogleServiceMaps, false)
	if err != nil {
		return GoogleConfig{}, err
	}
	geocoding, err := s.store.GetBool(ctx, models.SettingKeyGoogleServiceGeocoding, false)
	if err != nil {
		return GoogleConfig{}, err
	}

	return GoogleConfig{
		Enabled: true,
		APIKey:  apiKey,
		Services: GoogleServices{
			Places:    places,
			Maps:      maps,
			Geocoding: geocoding,
		},
	}, nil
}

// resolveStripe assembles the Stripe config. Mode defaults to "test"; the
// fee knobs default to the standard 2.9% + 30¢.
func (s *Service) resolveStripe(ctx context.Context) (StripeConfig, error) {
	mode, err := s.store.GetString(ctx, models.SettingKeyStripeMode, DefaultStripeMode)
	if err != nil {
		return StripeConfig{}, err
	}
	if mode != "test" && mode != "live" {
		mode = DefaultStripeMode
	}

	feePercent, err := s.store.GetFloat(ctx, models.SettingKeyStripeFeePercent, DefaultStripeFeePercent)
	if err != nil {
		return StripeConfig{}, err
	}
	feeFixed, err := s.store.GetInt(ctx, models.SettingKeyStripeFeeFixedCents, DefaultStripeFeeFixedCents)
	if err != nil {
		return StripeConfig{}, err
	}

	cfg := StripeConfig{
		Mode:          mode,
		FeePercent:    feePercent,
		FeeFixedCents: int64(feeFixed),
	}

	cfg.PublishableKey, err = s.store.GetString(ctx, models.SettingKeyStripePublishableKey, "")
	if err != nil {
		return StripeConfig{}, err
	}

	secretKey, err := s.store.GetSecret(ctx, models.SecretKeyStripeSecretKey)
	if err != nil && !isNotFound(err) {
		return StripeConfig{}, err
	}
	cfg.SecretKey = secretKey

	webhookSecret, err := s.store.GetSecret(ctx, models.SecretKeyStripeWebhookSecret)
	if err != nil && !isNotFound(err) {
		return StripeConfig{}, err
	}
	cfg.WebhookSecret = webhookSecret

	cfg.IsConfigured = cfg.PublishableKey != "" && cfg.SecretKey != ""
	return cfg, nil
}

// resolveEmail assembles the SMTP config. Port defaults to 587.
func (s *Service) resolveEmail(ctx context.Context) (EmailConfig, error) {
	enabled, err := s.store.GetBool(ctx, models.SettingKeyEmailEnabled, false)
	if err != nil {
		return EmailConfig{}, err
	}
	if !enabled {
		return EmailConfig{}, nil
	}

	cfg := EmailConfig{Enabled: true}

	cfg.Host, err = s.store.GetString(ctx, models.SettingKeyEmailHost, "")
	if err != nil {
		return EmailConfig{}, err
	}
	cfg.Port, err = s.store.GetInt(ctx, models.SettingKeyEmailPort, DefaultEmailPort)
	if err != nil {
		return EmailConfig{}, err
	}
	cfg.Username, err = s.store.GetString(ctx, models.SettingKeyEmailUsername, "")
	if err != nil {
		return EmailConfig{}, err
	}
	cfg.FromAddress, err = s.store.GetString(ctx, models.SettingKeyEmailFromAddress, "")
	if err != nil {
		return EmailConfig{}, err
	}
	cfg.FromName, err = s.store.GetString(ctx, models.SettingKeyEmailFromName, "")
	if err != nil {
		return EmailConfig{}, err
	}

	password, err := s.store.GetSecret(ctx, models.SecretKeyEmailPassword)
	if err != nil && !isNotFound(err) {
		return EmailConfig{}, err
	}
	cfg.Password = password

	cfg.IsConfigured = cfg.Host != "" && cfg.FromAddress != ""
	return cfg, nil
}
