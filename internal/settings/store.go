// Package settings implements the platform settings service: a store over
// the plain and encrypted settings tables, typed per-integration config
// resolvers, a TTL'd in-process cache, and the public projection served to
// unauthenticated clients.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/solera-market/solera/internal/crypto"
	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSettingNotFound is returned when a setting row is absent. It is distinct
// from database failures: callers apply defaults on ErrSettingNotFound and
// propagate everything else, so an unreachable database never reads as
// "setting unset".
var ErrSettingNotFound = errors.New("setting not found")

// Store reads and writes the two settings tables. One query per call, no
// caching at this layer; the resolver cache above owns memoization.
type Store struct {
	db  *gorm.DB
	key []byte // AES key for encrypted settings, read-only after construction
}

// NewStore creates a settings store. key is the derived field-encryption key
// (crypto.DeriveKey).
func NewStore(db *gorm.DB, key []byte) *Store {
	return &Store{db: db, key: key}
}

// GetPlain returns the raw JSON-encoded value for a plain setting.
func (s *Store) GetPlain(ctx context.Context, key string) (string, error) {
	var row models.PlatformSetting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
		}
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return row.Value, nil
}

// GetString returns a plain setting decoded as a string, or def when the
// setting is absent or not a string. Database errors propagate.
func (s *Store) GetString(ctx context.Context, key, def string) (string, error) {
	raw, err := s.GetPlain(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return def, nil
		}
		return def, err
	}
	var v string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def, nil
	}
	return v, nil
}

// GetBool returns a plain setting decoded as a bool, or def when absent or
// malformed. Database errors propagate.
func (s *Store) GetBool(ctx context.Context, key string, def bool) (bool, error) {
	raw, err := s.GetPlain(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return def, nil
		}
		return def, err
	}
	var v bool
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def, nil
	}
	return v, nil
}

// GetInt returns a plain setting decoded as an int, or def when absent or
// malformed. Database errors propagate.
func (s *Store) GetInt(ctx context.Context, key string, def int) (int, error) {
	raw, err := s.GetPlain(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return def, nil
		}
		return def, err
	}
	// JSON numbers decode as float64; accept integral floats.
	var v float64
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def, nil
	}
	return int(v), nil
}

// GetFloat returns a plain setting decoded as a float64, or def when absent
// or malformed. Database errors propagate.
func (s *Store) GetFloat(ctx context.Context, key string, def float64) (float64, error) {
	raw, err := s.GetPlain(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return def, nil
		}
		return def, err
	}
	var v float64
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return def, nil
	}
	return v, nil
}

// SetPlain JSON-encodes and upserts a plain setting.
func (s *Store) SetPlain(ctx context.Context, key string, value any, isPublic bool) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}

	row := models.PlatformSetting{
		Key:      key,
		Value:    string(encoded),
		IsPublic: isPublic,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "is_public", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// GetSecret returns the decrypted plaintext of an encrypted setting. Absence
// is ErrSettingNotFound; a decryption failure (wrong key, tampering) is
// returned as-is and must surface as configuration unavailable, never as an
// empty secret.
func (s *Store) GetSecret(ctx context.Context, key string) (string, error) {
	var row models.EncryptedSetting
	err := s.db.WithContext(ctx).Where("setting_key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
		}
		return "", fmt.Errorf("failed to read secret %s: %w", key, err)
	}

	plaintext, err := crypto.DecryptField(row.EncryptedValue, s.key)
	if err != nil {
		return "", fmt.Errorf("secret %s: %w", key, err)
	}
	return plaintext, nil
}

// SetSecret encrypts and upserts an encrypted setting.
func (s *Store) SetSecret(ctx context.Context, key, category, plaintext string, updatedBy *uuid.UUID) error {
	ciphertext, err := crypto.EncryptField(plaintext, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret %s: %w", key, err)
	}

	row := models.EncryptedSetting{
		SettingKey:      key,
		SettingCategory: category,
		EncryptedValue:  ciphertext,
		UpdatedBy:       updatedBy,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_category", "encrypted_value", "updated_by", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write secret %s: %w", key, err)
	}
	return nil
}

// ListPublic returns the decoded values of all settings flagged public.
func (s *Store) ListPublic(ctx context.Context) (map[string]any, error) {
	var rows []models.PlatformSetting
	if err := s.db.WithContext(ctx).Where("is_public = ?", true).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list public settings: %w", err)
	}

	out := make(map[string]any, len(rows))
	for _, row := range rows {
		var v any
		if err := json.Unmarshal([]byte(row.Value), &v); err != nil {
			// A malformed row should not take the projection down.
			continue
		}
		out[row.Key] = v
	}
	return out, nil
}

// ListAll returns every plain settings row. Admin surface only.
func (s *Store) ListAll(ctx context.Context) ([]models.PlatformSetting, error) {
	var rows []models.PlatformSetting
	if err := s.db.WithContext(ctx).Order("key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return rows, nil
}

// ListSecretMeta returns encrypted settings without their ciphertext
// (EncryptedValue is excluded from JSON, the rows are safe to serialize).
func (s *Store) ListSecretMeta(ctx context.Context) ([]models.EncryptedSetting, error) {
	var rows []models.EncryptedSetting
	if err := s.db.WithContext(ctx).Order("setting_category, setting_key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	return rows, nil
}
