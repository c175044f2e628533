package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"wareflow-system/internal/database/models"
	"wareflow-system/internal/utils"
)

type AuthHTTPHandler struct {
	db       *gorm.DB
	logger   *zap.Logger
	tokenTTL time.Duration
}

func NewAuthHTTPHandler(db *gorm.DB, logger *zap.Logger, tokenTTL time.Duration) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		db:       db,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Firstname   string `json:"firstname" binding:"required"`
	Lastname    string `json:"lastname" binding:"required"`
	CompanyName string `json:"company_name"`
}

type userResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	Role           string `json:"role"`
	OrganizationID int64  `json:"organization_id"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Firstname:      u.Firstname,
		Lastname:       u.Lastname,
		Role:           u.Role.RoleName,
		OrganizationID: u.OrganizationID,
	}
}

func (h *AuthHTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var user models.User
	err := h.db.Preload("Role").Where("username = ?", req.Username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusUnauthorized, errorResponse("invalid username or password"))
		return
	}
	if err != nil {
		h.logger.Error("login lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse("invalid username or password"))
		return
	}

	token, exp, err := utils.GenerateToken(user.ID, user.Username, user.OrganizationID, user.Role.RoleName, h.tokenTTL)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("error generating token"))
		return
	}

	now := time.Now()
	if err := h.db.Model(&user).Update("last_login", &now).Error; err != nil {
		// the session is already authenticated; a stale last_login is not
		// worth failing the login over
		h.logger.Warn("last_login update failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, successResponse("login successful", map[string]interface{}{
		"token":      token,
		"expires_at": exp,
		"user":       toUserResponse(user),
	}))
}

// Register creates a new organization and its first user, who becomes the
// organization admin. The organization profile starts empty apart from the
// company name; reports stay locked until onboarding completes.
func (h *AuthHTTPHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var existing models.User
	if err := h.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, errorResponse("username or email already exists"))
		return
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error hashing password"))
		return
	}

	var adminRole models.Role
	if err := h.db.Where("role_name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		h.logger.Error("admin role missing", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	var user models.User
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		profile := models.OrganizationProfile{CompanyName: req.CompanyName}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		user = models.User{
			OrganizationID: profile.ID,
			Username:       req.Username,
			Email:          req.Email,
			Password:       string(pwHash),
			Firstname:      req.Firstname,
			Lastname:       req.Lastname,
			RoleID:         adminRole.ID,
			Role:           adminRole,
			IsActive:       true,
		}
		return tx.Create(&user).Error
	})
	if txErr != nil {
		h.logger.Error("registration failed", zap.Error(txErr))
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
		return
	}

	token, exp, err := utils.GenerateToken(user.ID, user.Username, user.OrganizationID, adminRole.RoleName, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("error generating token"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("registration successful", map[string]interface{}{
		"token":      token,
		"expires_at": exp,
		"user":       toUserResponse(user),
	}))
}
