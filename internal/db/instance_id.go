package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
)

// GetOrCreateInstanceID retrieves the platform instance ID, generating and
// storing one on first boot. The ID lives in the platform settings table as
// a private row. Called during startup after migrations.
func GetOrCreateInstanceID(db *gorm.DB) (string, error) {
	var setting models.PlatformSetting

	err := db.Where("key = ?", models.SettingKeyInstanceID).First(&setting).Error
	if err == nil {
		return unquote(setting.Value), nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to query instance ID: %w", err)
	}

	instanceID := uuid.New().String()
	setting = models.PlatformSetting{
		Key:      models.SettingKeyInstanceID,
		Value:    fmt.Sprintf("%q", instanceID),
		IsPublic: false,
	}

	if err := db.Create(&setting).Error; err != nil {
		return "", fmt.Errorf("failed to create instance ID: %w", err)
	}

	slog.Info("Generated new instance ID", "instance_id", instanceID)
	return instanceID, nil
}

// unquote strips the JSON string quoting from a stored value.
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}
