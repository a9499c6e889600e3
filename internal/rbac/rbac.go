// Package rbac wraps the Casbin enforcer backing the platform's admin
// authorization. Policies persist in the same database as everything else
// via the gorm adapter.
package rbac

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelConf string

// adminRole is the Casbin role granting the platform admin surface.
const adminRole = "role:admin"

// Enforcer owns the Casbin enforcer. Constructed once at startup and
// injected where needed.
type Enforcer struct {
	enforcer *casbin.Enforcer
}

// NewEnforcer initializes the Casbin enforcer with the gorm adapter.
func NewEnforcer(db *gorm.DB) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(modelConf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	e, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	// The admin role can do anything; idempotent on restart.
	if _, err := e.AddPolicy(adminRole, "*", "*"); err != nil {
		return nil, fmt.Errorf("failed to seed admin policy: %w", err)
	}

	slog.Info("RBAC enforcer initialized")
	return &Enforcer{enforcer: e}, nil
}

// IsAdmin checks whether the user holds the admin role.
func (e *Enforcer) IsAdmin(userID uuid.UUID) (bool, error) {
	return e.enforcer.HasRoleForUser(userID.String(), adminRole)
}

// MakeAdmin grants the admin role to a user.
func (e *Enforcer) MakeAdmin(userID uuid.UUID) error {
	if _, err := e.enforcer.AddRoleForUser(userID.String(), adminRole); err != nil {
		return fmt.Errorf("failed to grant admin role: %w", err)
	}
	return nil
}

// RevokeAdmin removes the admin role from a user.
func (e *Enforcer) RevokeAdmin(userID uuid.UUID) error {
	if _, err := e.enforcer.DeleteRoleForUser(userID.String(), adminRole); err != nil {
		return fmt.Errorf("failed to revoke admin role: %w", err)
	}
	return nil
}

// GetAllAdminUserIDs returns the set of admin user IDs in one Casbin call.
func (e *Enforcer) GetAllAdminUserIDs() (map[uuid.UUID]bool, error) {
	users, err := e.enforcer.GetUsersForRole(adminRole)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}

	out := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		id, err := uuid.Parse(u)
		if err != nil {
			continue
		}
		out[id] = true
	}
	return out, nil
}
