package main

import (
	"fmt"

	"github.com/solera-market/solera/internal/config"
	"github.com/solera-market/solera/internal/crypto"
	"github.com/solera-market/solera/internal/db"
	"github.com/solera-market/solera/internal/settings"
	"gorm.io/gorm"
)

// openDB loads config and opens the database the same way the server does.
// The CLI operates on the database directly, so it must run on the host
// where the database is reachable.
func openDB() (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return database, cfg, nil
}

// openStore opens the settings store with the derived encryption key.
func openStore() (*settings.Store, *gorm.DB, error) {
	database, cfg, err := openDB()
	if err != nil {
		return nil, nil, err
	}

	secret := cfg.Security.EncryptionSecret
	if secret == "" {
		secret = cfg.Auth.JWTSecret
	}
	key, err := crypto.DeriveKey(secret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	return settings.NewStore(database, key), database, nil
}
