package db

import (
	"fmt"
	"log/slog"

	"github.com/solera-market/solera/internal/auth"
	"github.com/solera-market/solera/internal/config"
	"github.com/solera-market/solera/internal/models"
	"github.com/solera-market/solera/internal/rbac"
	"gorm.io/gorm"
)

// CreateDefaultAdmin creates the configured admin account when the user
// table is empty. A deployment without auth.admin_password skips seeding.
func CreateDefaultAdmin(db *gorm.DB, enforcer *rbac.Enforcer, cfg config.AuthConfig) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		slog.Info("No admin credentials configured, skipping default admin creation")
		return nil
	}

	email := cfg.AdminEmail
	if email == "" {
		email = fmt.Sprintf("%s@solera.local", cfg.AdminUsername)
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		slog.Info("Users already exist, skipping default admin creation")
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     cfg.AdminUsername,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	if err := enforcer.MakeAdmin(user.ID); err != nil {
		return fmt.Errorf("failed to grant admin role: %w", err)
	}

	slog.Info("Default admin user created", "username", user.Username, "email", email)
	return nil
}
