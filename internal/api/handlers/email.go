package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solera-market/solera/internal/audit"
	"github.com/solera-market/solera/internal/mailer"
	"github.com/solera-market/solera/internal/models"
	"gorm.io/gorm"
)

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// EmailHandler handles email-related admin endpoints
type EmailHandler struct {
	sender Sender
	db     *gorm.DB
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(sender Sender, db *gorm.DB) *EmailHandler {
	return &EmailHandler{sender: sender, db: db}
}

// SendTestEmail godoc
// @Summary Send a test email
// @Description Send a test message to the authenticated admin using the stored SMTP settings
// @Tags email
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/email/test [post]
func (h *EmailHandler) SendTestEmail(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	u := user.(*models.User)

	err := h.sender.Send(c.Request.Context(), u.Email,
		"Solera test email",
		"This is a test message confirming your email settings are working.")
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Email is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to send test email"})
		return
	}

	_ = audit.LogAction(h.db, u.ID, audit.ActionSendTestEmail, "email:"+u.Email, nil)
	c.JSON(http.StatusOK, gin.H{"status": "sent", "to": u.Email})
}
