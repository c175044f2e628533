package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wareflow-system/internal/database/models"
)

type SettingsHTTPHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSettingsHTTPHandler(db *gorm.DB, logger *zap.Logger) *SettingsHTTPHandler {
	return &SettingsHTTPHandler{
		db:     db,
		logger: logger,
	}
}

// GetSettings returns every known setting, overlaying persisted records on
// the defaults so unset keys still resolve.
func (h *SettingsHTTPHandler) GetSettings(c *gin.Context) {
	var rows []models.OrgSetting
	if err := h.db.Where("organization_id = ?", orgID(c)).Find(&rows).Error; err != nil {
		h.logger.Error("settings load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	settings := map[string]string{}
	for key, def := range models.SettingDefaults {
		settings[key] = def
	}
	for _, row := range rows {
		if _, known := models.SettingDefaults[row.Key]; known {
			settings[row.Key] = row.Value
		}
	}
	c.JSON(http.StatusOK, successResponse("settings retrieved", settings))
}

type UpdateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func validateSettingValue(key, value string) string {
	switch key {
	case models.SettingAnnouncementDismissed, models.SettingAutoReorderEnabled:
		if value != "true" && value != "false" {
			return "value must be true or false"
		}
	case models.SettingWalletBalance:
		balance, err := decimal.NewFromString(value)
		if err != nil {
			return "value must be a decimal number"
		}
		if balance.IsNegative() {
			return "balance cannot be negative"
		}
	default:
		return "unknown setting key"
	}
	return ""
}

// UpdateSetting upserts one known setting record. Unknown keys and invalid
// values are rejected at the edge with no state mutated.
func (h *SettingsHTTPHandler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("key and value are required"))
		return
	}

	if msg := validateSettingValue(req.Key, req.Value); msg != "" {
		c.JSON(http.StatusBadRequest, errorResponse(msg))
		return
	}

	setting := models.OrgSetting{
		OrganizationID: orgID(c),
		Key:            req.Key,
		Value:          req.Value,
	}
	err := h.db.Where(models.OrgSetting{OrganizationID: orgID(c), Key: req.Key}).
		Assign(map[string]interface{}{"value": req.Value}).
		FirstOrCreate(&setting).Error
	if err != nil {
		h.logger.Error("setting upsert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	c.JSON(http.StatusOK, successResponse("setting updated", map[string]string{
		req.Key: req.Value,
	}))
}

// UpdateProfile sets the organization's company details used on reports.
type UpdateProfileRequest struct {
	CompanyName *string `json:"company_name,omitempty"`
	Address     *string `json:"address,omitempty"`
	Currency    *string `json:"currency,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

func (h *SettingsHTTPHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	updates := map[string]interface{}{}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse("no fields to update"))
		return
	}

	err := h.db.Model(&models.OrganizationProfile{}).Where("id = ?", orgID(c)).Updates(updates).Error
	if err != nil {
		h.logger.Error("profile update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	var profile models.OrganizationProfile
	if err := h.db.Where("id = ?", orgID(c)).First(&profile).Error; err != nil {
		h.logger.Error("profile reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}
	c.JSON(http.StatusOK, successResponse("profile updated", profile))
}
