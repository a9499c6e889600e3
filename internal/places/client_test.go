package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/solera-market/solera/internal/crypto"
	"github.com/solera-market/solera/internal/models"
	"github.com/solera-market/solera/internal/settings"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSettings(t *testing.T) *settings.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.PlatformSetting{}, &models.EncryptedSetting{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	key, err := crypto.DeriveKey("places-client-test-secret")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	return settings.NewService(settings.NewStore(db, key), 0)
}

func enablePlaces(t *testing.T, svc *settings.Service, apiKey string) {
	t.Helper()
	ctx := context.Background()
	store := svc.Store()
	if err := store.SetPlain(ctx, models.SettingKeyGoogleEnabled, true, false); err != nil {
		t.Fatal(err)
	}
	if err := store.SetPlain(ctx, models.SettingKeyGoogleServicePlaces, true, false); err != nil {
		t.Fatal(err)
	}
	if err := store.SetSecret(ctx, models.SecretKeyGoogleAPIKey, "google", apiKey, nil); err != nil {
		t.Fatal(err)
	}
}

func TestAutocompleteDisabled(t *testing.T) {
	client := NewClient(setupSettings(t))

	_, err := client.Autocomplete(context.Background(), "napa", "")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestAutocompleteProxiesUpstream(t *testing.T) {
	svc := setupSettings(t)
	enablePlaces(t, svc, "AIza-test-key")

	var gotKey, gotInput, gotTypes string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotInput = r.URL.Query().Get("input")
		gotTypes = r.URL.Query().Get("types")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","predictions":[{"description":"Napa, CA, USA","place_id":"abc123"}]}`))
	}))
	defer upstream.Close()

	client := NewClient(svc)
	client.SetBaseURL(upstream.URL)

	resp, err := client.Autocomplete(context.Background(), "napa", "(cities)")
	if err != nil {
		t.Fatalf("Autocomplete: %v", err)
	}

	if gotKey != "AIza-test-key" {
		t.Errorf("api key not forwarded, got %q", gotKey)
	}
	if gotInput != "napa" || gotTypes != "(cities)" {
		t.Errorf("query not forwarded: input=%q types=%q", gotInput, gotTypes)
	}
	if resp.Status != "OK" || len(resp.Predictions) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Predictions[0].PlaceID != "abc123" {
		t.Errorf("unexpected prediction: %+v", resp.Predictions[0])
	}
}

func TestAutocompleteUpstreamFailure(t *testing.T) {
	svc := setupSettings(t)
	enablePlaces(t, svc, "AIza-test-key")

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	client := NewClient(svc)
	client.SetBaseURL(upstream.URL)

	_, err := client.Autocomplete(context.Background(), "napa", "")
	if err == nil {
		t.Fatal("expected error on upstream failure")
	}
	if errors.Is(err, ErrDisabled) {
		t.Fatal("upstream failure must not read as disabled")
	}
}
