package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wareflow-system/internal/database/models"
	"wareflow-system/internal/report"
)

type ReportsHTTPHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewReportsHTTPHandler(db *gorm.DB, logger *zap.Logger) *ReportsHTTPHandler {
	return &ReportsHTTPHandler{
		db:     db,
		logger: logger,
	}
}

func (h *ReportsHTTPHandler) loadProfile(c *gin.Context) (report.CompanyProfile, error) {
	var profile models.OrganizationProfile
	err := h.db.Where("id = ?", orgID(c)).First(&profile).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return report.CompanyProfile{}, err
	}
	return report.CompanyProfile{
		Name:     profile.CompanyName,
		Address:  profile.Address,
		Currency: profile.Currency,
		LogoURL:  profile.LogoURL,
	}, nil
}

// PutawayLabel returns the label payload for one item, including the QR
// content string the label printer encodes.
func (h *ReportsHTTPHandler) PutawayLabel(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid item id"))
		return
	}

	var item models.InventoryItem
	err = h.db.Where("id = ? AND organization_id = ?", itemID, orgID(c)).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, errorResponse("inventory item not found"))
		return
	}
	if err != nil {
		h.logger.Error("item lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	profile, err := h.loadProfile(c)
	if err != nil {
		h.logger.Error("profile load failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	label, err := report.BuildPutawayLabel(profile, item)
	if err != nil {
		var incomplete *report.IncompleteProfileError
		if errors.As(err, &incomplete) {
			c.JSON(http.StatusConflict, APIResponse{
				Success: false,
				Message: incomplete.Error(),
				Meta:    map[string]interface{}{"error": "PROFILE_INCOMPLETE", "missing": incomplete.Missing},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("failed to build label"))
		return
	}

	c.JSON(http.StatusOK, successResponse("putaway label built", label))
}

func (h *ReportsHTTPHandler) InventoryTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="inventory_import_template.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(report.InventoryImportTemplate()))
}

func (h *ReportsHTTPHandler) CustomersTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="customer_import_template.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(report.CustomerImportTemplate()))
}
