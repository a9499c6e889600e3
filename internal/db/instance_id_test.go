package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&models.PlatformSetting{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestGetOrCreateInstanceID(t *testing.T) {
	db := setupTestDB(t)

	id1, err := GetOrCreateInstanceID(db)
	if err != nil {
		t.Fatalf("GetOrCreateInstanceID: %v", err)
	}
	if id1 == "" {
		t.Fatal("expected non-empty instance ID")
	}

	// Second call returns the stored ID, not a new one.
	id2, err := GetOrCreateInstanceID(db)
	if err != nil {
		t.Fatalf("GetOrCreateInstanceID second call: %v", err)
	}
	if id2 != id1 {
		t.Errorf("instance ID changed between calls: %q != %q", id1, id2)
	}

	// Stored privately: never part of the public projection.
	var row models.PlatformSetting
	if err := db.Where("key = ?", models.SettingKeyInstanceID).First(&row).Error; err != nil {
		t.Fatalf("fetch row: %v", err)
	}
	if row.IsPublic {
		t.Error("instance ID must not be public")
	}
}

func TestSeedDefaultSettingsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := seedDefaultSettings(db); err != nil {
		t.Fatalf("seedDefaultSettings: %v", err)
	}

	// Simulate an admin overwrite, then re-seed.
	if err := db.Model(&models.PlatformSetting{}).
		Where("key = ?", models.SettingKeyPlatformName).
		Update("value", `"Cellar Door"`).Error; err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := seedDefaultSettings(db); err != nil {
		t.Fatalf("seedDefaultSettings again: %v", err)
	}

	var row models.PlatformSetting
	if err := db.Where("key = ?", models.SettingKeyPlatformName).First(&row).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if row.Value != `"Cellar Door"` {
		t.Errorf("re-seed clobbered admin value: %q", row.Value)
	}
}
