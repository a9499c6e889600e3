package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solera-market/solera/internal/audit"
	"github.com/solera-market/solera/internal/bus"
	"github.com/solera-market/solera/internal/settings"
	"gorm.io/gorm"
)

// SettingsHandler serves the public settings projection and the admin
// settings surface.
type SettingsHandler struct {
	svc *settings.Service
	db  *gorm.DB
	bus bus.InvalidationBus
}

func NewSettingsHandler(svc *settings.Service, db *gorm.DB, b bus.InvalidationBus) *SettingsHandler {
	return &SettingsHandler{svc: svc, db: db, bus: b}
}

// invalidate drops the local cache and tells other replicas to do the same.
func (h *SettingsHandler) invalidate(c *gin.Context) {
	h.svc.Invalidate()
	if h.bus != nil {
		if err := h.bus.Publish(c.Request.Context()); err != nil {
			slog.Warn("failed to broadcast settings invalidation", "error", err)
		}
	}
}

// GetPublicSettings godoc
// @Summary Get public platform settings
// @Description Returns only settings marked public. Secrets and private
// @Description settings never appear here.
// @Tags settings
// @Produce json
// @Success 200 {object} settings.PublicSettings
// @Failure 500 {object} ErrorResponse
// @Router /platform/settings/public [get]
func (h *SettingsHandler) GetPublicSettings(c *gin.Context) {
	public, err := h.svc.Public(c.Request.Context())
	if err != nil {
		slog.Error("failed to resolve public settings", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, public)
}

// GetGooglePublic godoc
// @Summary Get public Google integration config
// @Description Returns the browser-facing Google config. Misconfiguration
// @Description degrades to enabled:false rather than an error status.
// @Tags settings
// @Produce json
// @Success 200 {object} settings.GoogleConfig
// @Router /platform/settings/google/public [get]
func (h *SettingsHandler) GetGooglePublic(c *gin.Context) {
	cfg, err := h.svc.Google(c.Request.Context())
	if err != nil {
		slog.Warn("google settings unavailable, serving disabled config", "error", err)
		c.JSON(http.StatusOK, settings.GoogleConfig{})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// GetStripePublic godoc
// @Summary Get public Stripe config
// @Description Returns the publishable key and mode. The secret key and
// @Description webhook secret are never included.
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /platform/settings/stripe/public [get]
func (h *SettingsHandler) GetStripePublic(c *gin.Context) {
	cfg, err := h.svc.Stripe(c.Request.Context())
	if err != nil {
		slog.Warn("stripe settings unavailable, serving empty config", "error", err)
		c.JSON(http.StatusOK, gin.H{
			"publishableKey": "",
			"mode":           settings.DefaultStripeMode,
			"isConfigured":   false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"publishableKey": cfg.PublishableKey,
		"mode":           cfg.Mode,
		"isConfigured":   cfg.IsConfigured,
	})
}

// ListSettings godoc
// @Summary List all platform settings
// @Description Returns every plain setting plus metadata for stored secrets.
// @Description Secret plaintext is never returned.
// @Tags settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /platform/settings [get]
func (h *SettingsHandler) ListSettings(c *gin.Context) {
	ctx := c.Request.Context()
	store := h.svc.Store()

	plain, err := store.ListAll(ctx)
	if err != nil {
		slog.Error("failed to list settings", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list settings"})
		return
	}
	secrets, err := store.ListSecretMeta(ctx)
	if err != nil {
		slog.Error("failed to list secret metadata", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": plain,
		"secrets":  secrets,
	})
}

// UpdateSettingRequest is the body for updating a plain setting.
type UpdateSettingRequest struct {
	Value    any  `json:"value"`
	IsPublic bool `json:"isPublic"`
}

// UpdateSetting godoc
// @Summary Update a plain platform setting
// @Tags settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Param setting body UpdateSettingRequest true "New value"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /platform/settings/{key} [put]
func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Setting key is required"})
		return
	}

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Value == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Setting value is required"})
		return
	}

	if err := h.svc.Store().SetPlain(c.Request.Context(), key, req.Value, req.IsPublic); err != nil {
		slog.Error("failed to update setting", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update setting"})
		return
	}
	h.invalidate(c)

	_ = audit.LogAction(h.db, getUserID(c), audit.ActionUpdateSetting, "setting:"+key, map[string]any{
		"isPublic": req.IsPublic,
	})

	c.JSON(http.StatusOK, gin.H{
		"key":      key,
		"value":    req.Value,
		"isPublic": req.IsPublic,
	})
}

// UpdateSecretRequest is the body for updating an encrypted setting. The
// plaintext only ever travels in this request; responses never echo it.
type UpdateSecretRequest struct {
	Value    string `json:"value"`
	Category string `json:"category" binding:"required"`
}

// UpdateSecret godoc
// @Summary Update an encrypted platform secret
// @Description Stores the value encrypted at rest. The response and the
// @Description audit trail never contain the plaintext.
// @Tags settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param key path string true "Secret key"
// @Param secret body UpdateSecretRequest true "New secret value"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /platform/secrets/{key} [put]
func (h *SettingsHandler) UpdateSecret(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Secret key is required"})
		return
	}

	var req UpdateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Secret category is required"})
		return
	}

	userID := getUserID(c)
	if err := h.svc.Store().SetSecret(c.Request.Context(), key, req.Category, req.Value, &userID); err != nil {
		slog.Error("failed to update secret", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update secret"})
		return
	}
	h.invalidate(c)

	_ = audit.LogAction(h.db, userID, audit.ActionUpdateSecret, "secret:"+key, map[string]any{
		"category": req.Category,
	})

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
