package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
	"github.com/minjk/moamall-backend/pkg/util"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// Authenticate validates the Bearer token and stores the claims on the
// context for downstream handlers.
func Authenticate(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apperrors.Unauthorized(c, "Authorization header must be a Bearer token")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], jwtSecret)
		if err != nil {
			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.RespondWithError(c, 401, apperrors.AuthTokenExpired, "Token has expired")
			} else {
				apperrors.Unauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin guards catalog mutations. It must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists || role != "admin" {
			apperrors.Forbidden(c, "Admin privileges required")
			c.Abort()
			return
		}
		c.Next()
	}
}
