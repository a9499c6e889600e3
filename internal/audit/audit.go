package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
)

// LogAction records an audit log entry
func LogAction(db *gorm.DB, userID uuid.UUID, action, resource string, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	log := models.AuditLog{
		UserID:      userID,
		Action:      action,
		Resource:    resource,
		DetailsJSON: string(detailsJSON),
		Timestamp:   time.Now(),
	}

	return db.Create(&log).Error
}

// Audit actions constants
const (
	ActionCreateUser    = "create_user"
	ActionDeleteUser    = "delete_user"
	ActionMakeAdmin     = "make_admin"
	ActionRevokeAdmin   = "revoke_admin"
	ActionUpdateSetting = "update_setting"
	ActionUpdateSecret  = "update_secret"
	ActionCreatePage    = "create_page"
	ActionUpdatePage    = "update_page"
	ActionDeletePage    = "delete_page"
	ActionCreateVendor  = "create_vendor"
	ActionCreateProduct = "create_product"
	ActionLogin         = "login"
	ActionLoginFailed   = "login_failed"
	ActionSendTestEmail = "send_test_email"
)
