package settings

import (
	"context"
	"testing"
	"time"

	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
)

// countQueries registers a gorm callback that counts SELECTs, so cache tests
// can assert how many times the service actually hit the store.
func countQueries(t *testing.T, db *gorm.DB) *int {
	t.Helper()
	count := new(int)
	err := db.Callback().Query().After("gorm:query").Register("test:count_queries", func(*gorm.DB) {
		*count++
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	return count
}

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	store := NewStore(db, testKey(t))
	return NewService(store, DefaultCacheTTL), db
}

func TestGoogleDisabledByDefault(t *testing.T) {
	svc, _ := setupService(t)

	cfg, err := svc.Google(context.Background())
	if err != nil {
		t.Fatalf("Google: %v", err)
	}
	if cfg.Enabled {
		t.Error("expected disabled config with no settings written")
	}
	if cfg.APIKey != "" {
		t.Error("disabled config must not carry an API key")
	}
}

func TestGoogleEnabledWithoutKeyIsDisabled(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if err := svc.Store().SetPlain(ctx, models.SettingKeyGoogleEnabled, true, false); err != nil {
		t.Fatalf("SetPlain: %v", err)
	}

	cfg, err := svc.Google(ctx)
	if err != nil {
		t.Fatalf("Google: %v", err)
	}
	if cfg.Enabled {
		t.Error("enabled flag without a stored API key must resolve disabled")
	}
}

func TestGoogleResolvesEnabledConfig(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	store := svc.Store()
	if err := store.SetPlain(ctx, models.SettingKeyGoogleEnabled, true, false); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPlain(ctx, models.SettingKeyGoogleServicePlaces, true, false); err != nil {
		t.Fatal(err)
	}
	if err := store.SetSecret(ctx, models.SecretKeyGoogleAPIKey, "google", "AIza-test-key", nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := svc.Google(ctx)
	if err != nil {
		t.Fatalf("Google: %v", err)
	}
	if !cfg.Enabled {
		t.Fatal("expected enabled config")
	}
	if cfg.APIKey != "AIza-test-key" {
		t.Errorf("unexpected api key %q", cfg.APIKey)
	}
	if !cfg.Services.Places || cfg.Services.Maps {
		t.Errorf("unexpected services: %+v", cfg.Services)
	}
}

func TestStripeDefaults(t *testing.T) {
	svc, _ := setupService(t)

	cfg, err := svc.Stripe(context.Background())
	if err != nil {
		t.Fatalf("Stripe: %v", err)
	}
	if cfg.Mode != "test" {
		t.Errorf("mode should default to test, got %q", cfg.Mode)
	}
	if cfg.IsConfigured {
		t.Error("no keys written, IsConfigured must be false")
	}
	if cfg.FeePercent != DefaultStripeFeePercent || cfg.FeeFixedCents != DefaultStripeFeeFixedCents {
		t.Errorf("unexpected fee defaults: %v%% + %d¢", cfg.FeePercent, cfg.FeeFixedCents)
	}
}

func TestStripeConfigured(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	store := svc.Store()
	if err := store.SetPlain(ctx, models.SettingKeyStripeMode, "live", false); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPlain(ctx, models.SettingKeyStripePublishableKey, "pk_live_x", true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetSecret(ctx, models.SecretKeyStripeSecretKey, "stripe", "sk_live_x", nil); err != nil {
		t.Fatal(err)
	}

	cfg, err := svc.Stripe(ctx)
	if err != nil {
		t.Fatalf("Stripe: %v", err)
	}
	if !cfg.IsConfigured {
		t.Fatal("expected configured")
	}
	if cfg.Mode != "live" {
		t.Errorf("expected live mode, got %q", cfg.Mode)
	}
	if cfg.SecretKey != "sk_live_x" {
		t.Error("secret key not decrypted")
	}
}

func TestStripePlatformFee(t *testing.T) {
	cfg := StripeConfig{FeePercent: 2.9, FeeFixedCents: 30}

	// $100.00 charge: 290 + 30 = 320.
	if fee := cfg.PlatformFee(10000); fee != 320 {
		t.Errorf("expected fee 320, got %d", fee)
	}
	if fee := cfg.PlatformFee(0); fee != 30 {
		t.Errorf("expected fixed-only fee 30, got %d", fee)
	}
}

func TestEmailDefaults(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	store := svc.Store()
	if err := store.SetPlain(ctx, models.SettingKeyEmailEnabled, true, false); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPlain(ctx, models.SettingKeyEmailHost, "smtp.example.com", false); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPlain(ctx, models.SettingKeyEmailFromAddress, "orders@example.com", false); err != nil {
		t.Fatal(err)
	}

	cfg, err := svc.Email(ctx)
	if err != nil {
		t.Fatalf("Email: %v", err)
	}
	if cfg.Port != DefaultEmailPort {
		t.Errorf("port should default to %d, got %d", DefaultEmailPort, cfg.Port)
	}
	if !cfg.IsConfigured {
		t.Error("host + from address present, expected configured")
	}
	if cfg.Addr() != "smtp.example.com:587" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
}

func TestCacheServesWithinTTLWithoutStoreReads(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	queries := countQueries(t, db)

	if _, err := svc.Stripe(ctx); err != nil {
		t.Fatalf("Stripe: %v", err)
	}
	afterFirst := *queries
	if afterFirst == 0 {
		t.Fatal("first resolution should hit the store")
	}

	if _, err := svc.Stripe(ctx); err != nil {
		t.Fatalf("Stripe cached: %v", err)
	}
	if *queries != afterFirst {
		t.Errorf("second call within TTL ran %d extra queries", *queries-afterFirst)
	}
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	if _, err := svc.Stripe(ctx); err != nil {
		t.Fatalf("Stripe: %v", err)
	}

	// Jump the clock past the TTL.
	svc.now = func() time.Time { return time.Now().Add(DefaultCacheTTL + time.Second) }

	queries := countQueries(t, db)
	if _, err := svc.Stripe(ctx); err != nil {
		t.Fatalf("Stripe after expiry: %v", err)
	}
	if *queries == 0 {
		t.Error("expired entry should trigger a fresh store read")
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	cfg, err := svc.Stripe(ctx)
	if err != nil {
		t.Fatalf("Stripe: %v", err)
	}
	if cfg.Mode != "test" {
		t.Fatalf("precondition: default mode, got %q", cfg.Mode)
	}

	if err := svc.Store().SetPlain(ctx, models.SettingKeyStripeMode, "live", false); err != nil {
		t.Fatal(err)
	}

	// Without invalidation the stale entry is still served.
	cfg, _ = svc.Stripe(ctx)
	if cfg.Mode != "test" {
		t.Fatal("expected cached pre-write value before invalidation")
	}

	svc.Invalidate()

	cfg, err = svc.Stripe(ctx)
	if err != nil {
		t.Fatalf("Stripe after invalidate: %v", err)
	}
	if cfg.Mode != "live" {
		t.Errorf("expected fresh value after invalidate, got %q", cfg.Mode)
	}
}

func TestPublicProjectionDefaults(t *testing.T) {
	svc, _ := setupService(t)

	pub, err := svc.Public(context.Background())
	if err != nil {
		t.Fatalf("Public: %v", err)
	}
	if pub.AgeVerificationRequired {
		t.Error("ageVerificationRequired should default to false")
	}
	if pub.MinAgeForAlcohol != 21 {
		t.Errorf("minAgeForAlcohol should default to 21, got %d", pub.MinAgeForAlcohol)
	}
	if pub.PlatformName != DefaultPlatformName {
		t.Errorf("unexpected platform name %q", pub.PlatformName)
	}
}

func TestPublicProjectionReflectsPublicRowsOnly(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	store := svc.Store()
	if err := store.SetPlain(ctx, models.SettingKeyAgeVerificationRequired, true, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPlain(ctx, models.SettingKeyMinAgeForAlcohol, 18, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPlain(ctx, "checkout.banner", "Drink responsibly", true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPlain(ctx, "internal.ops_contact", "ops@solera.local", false); err != nil {
		t.Fatal(err)
	}

	pub, err := svc.Public(ctx)
	if err != nil {
		t.Fatalf("Public: %v", err)
	}
	if !pub.AgeVerificationRequired {
		t.Error("expected ageVerificationRequired true")
	}
	if pub.MinAgeForAlcohol != 18 {
		t.Errorf("expected minAgeForAlcohol 18, got %d", pub.MinAgeForAlcohol)
	}
	if pub.Extra["checkout.banner"] != "Drink responsibly" {
		t.Error("public extra setting missing")
	}
	if _, ok := pub.Extra["internal.ops_contact"]; ok {
		t.Error("private setting leaked into public projection")
	}
}
