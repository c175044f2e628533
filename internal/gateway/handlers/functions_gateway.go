package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wareflow-system/internal/database/models"
	"wareflow-system/internal/integrations"
)

// FunctionsHTTPHandler hosts the serverless-style proxy endpoints: each one
// handles a single inbound request, performs at most two outbound calls and
// returns. Transient upstream failures are reported to the caller to retry
// manually; nothing here retries.
type FunctionsHTTPHandler struct {
	db          *gorm.DB
	logger      *zap.Logger
	email       *integrations.EmailClient
	summarizer  *integrations.SummarizerClient
	shopify     *integrations.ShopifyClient
	frontendURL string
}

func NewFunctionsHTTPHandler(db *gorm.DB, logger *zap.Logger, email *integrations.EmailClient, summarizer *integrations.SummarizerClient, shopify *integrations.ShopifyClient, frontendURL string) *FunctionsHTTPHandler {
	return &FunctionsHTTPHandler{
		db:          db,
		logger:      logger,
		email:       email,
		summarizer:  summarizer,
		shopify:     shopify,
		frontendURL: frontendURL,
	}
}

type SendEmailRequest struct {
	To          string `json:"to" binding:"required,email"`
	Subject     string `json:"subject" binding:"required"`
	HTMLContent string `json:"htmlContent" binding:"required"`
}

func (h *FunctionsHTTPHandler) SendEmail(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("to, subject and htmlContent are required"))
		return
	}

	if err := h.email.Send(c.Request.Context(), req.To, req.Subject, req.HTMLContent); err != nil {
		if errors.Is(err, integrations.ErrMissingAPIKey) {
			c.JSON(http.StatusInternalServerError, errorResponse("email service is not configured"))
			return
		}
		h.logger.Warn("email relay failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("email sent", nil))
}

type SummarizeReportRequest struct {
	TextToSummarize string `json:"textToSummarize" binding:"required"`
}

func (h *FunctionsHTTPHandler) SummarizeReport(c *gin.Context) {
	var req SummarizeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("textToSummarize is required"))
		return
	}

	summary, err := h.summarizer.Summarize(c.Request.Context(), req.TextToSummarize)
	if err != nil {
		if errors.Is(err, integrations.ErrMissingAPIKey) {
			c.JSON(http.StatusInternalServerError, errorResponse("summarization service is not configured"))
			return
		}
		h.logger.Warn("summarization failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse("report summarized", map[string]string{"summary": summary}))
}

type UpdateUserProfileRequest struct {
	TargetUserID   int64  `json:"targetUserId" binding:"required"`
	NewRole        string `json:"newRole" binding:"required,oneof=admin member"`
	OrganizationID int64  `json:"organizationId" binding:"required"`
}

// UpdateUserProfile changes another user's role. Authorization is checked
// before any protected read or write: the caller must be an admin of the
// same organization named in the request, and the target user must belong
// to it.
func (h *FunctionsHTTPHandler) UpdateUserProfile(c *gin.Context) {
	var req UpdateUserProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("targetUserId, newRole and organizationId are required; newRole must be admin or member"))
		return
	}

	if callerRole(c) != models.RoleAdmin || orgID(c) != req.OrganizationID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "only an organization admin may change user roles",
			"error":   "FORBIDDEN",
		})
		return
	}

	var target models.User
	err := h.db.Where("id = ? AND organization_id = ?", req.TargetUserID, req.OrganizationID).First(&target).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, errorResponse("user not found in organization"))
		return
	}
	if err != nil {
		h.logger.Error("target user lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	var role models.Role
	if err := h.db.Where("role_name = ?", req.NewRole).First(&role).Error; err != nil {
		h.logger.Error("role lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if err := h.db.Model(&target).Update("role_id", role.ID).Error; err != nil {
		h.logger.Error("role update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	c.JSON(http.StatusOK, successResponse("user role updated", map[string]interface{}{
		"user_id": target.ID,
		"role":    role.RoleName,
	}))
}

func (h *FunctionsHTTPHandler) shopifyRedirect(c *gin.Context, status, message string) {
	redirect := fmt.Sprintf("%s/settings/integrations?shopify=%s&message=%s",
		h.frontendURL, status, url.QueryEscape(message))
	c.Redirect(http.StatusFound, redirect)
}

// ShopifyCallback completes the OAuth handshake started by the frontend.
// The state parameter carries the organization id issued with the install
// link. Success or failure is reported back to the frontend via a redirect
// flag rather than a JSON body, since the caller is a browser.
func (h *FunctionsHTTPHandler) ShopifyCallback(c *gin.Context) {
	query := c.Request.URL.Query()
	shop := query.Get("shop")
	code := query.Get("code")
	state := query.Get("state")
	if shop == "" || code == "" || state == "" {
		h.shopifyRedirect(c, "error", "missing shop, code or state parameter")
		return
	}

	organizationID, err := strconv.ParseInt(state, 10, 64)
	if err != nil {
		h.shopifyRedirect(c, "error", "invalid state parameter")
		return
	}

	if !h.shopify.VerifyHMAC(query) {
		h.shopifyRedirect(c, "error", "HMAC verification failed")
		return
	}

	token, err := h.shopify.ExchangeToken(c.Request.Context(), shop, code)
	if err != nil {
		h.logger.Warn("shopify token exchange failed", zap.Error(err))
		h.shopifyRedirect(c, "error", "token exchange failed")
		return
	}

	integration := models.ShopifyIntegration{
		OrganizationID: organizationID,
		ShopDomain:     shop,
		AccessToken:    token.AccessToken,
		Scope:          token.Scope,
		ConnectedAt:    time.Now(),
	}
	err = h.db.Where(models.ShopifyIntegration{OrganizationID: organizationID}).
		Assign(integration).
		FirstOrCreate(&models.ShopifyIntegration{}).Error
	if err != nil {
		h.logger.Error("integration persist failed", zap.Error(err))
		h.shopifyRedirect(c, "error", "failed to store integration")
		return
	}

	h.shopifyRedirect(c, "success", "Shopify store connected")
}
