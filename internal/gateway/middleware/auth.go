package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wareflow-system/internal/utils"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxUserID         = "user_id"
	CtxUsername       = "username"
	CtxOrganizationID = "organization_id"
	CtxRole           = "role"
)

// JWTAuth rejects unauthenticated requests before any protected data is
// read. Authorization failures are distinct from generic errors and always
// short-circuit.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing or malformed authorization header",
				"error":   "UNAUTHORIZED",
			})
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
				"error":   "UNAUTHORIZED",
			})
			return
		}

		c.Set(CtxUserID, claims.UserId)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxOrganizationID, claims.OrganizationId)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
