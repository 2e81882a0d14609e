package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/internal/app/service"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
	"github.com/minjk/moamall-backend/internal/middleware"
	"github.com/minjk/moamall-backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login authenticates an admin and issues a token pair
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	user, tokens, err := ctrl.authService.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.Unauthorized(c, "Invalid email or password")
			return
		}
		apperrors.InternalError(c, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} util.TokenPair
// @Router /auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "refresh_token is required")
		return
	}

	tokens, err := ctrl.authService.Refresh(input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrExpiredToken):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Refresh token has expired")
		case errors.Is(err, util.ErrInvalidToken), errors.Is(err, service.ErrAdminNotFound):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid refresh token")
		default:
			apperrors.InternalError(c, "Failed to refresh tokens")
		}
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Me returns the authenticated admin's profile
// @Summary Current admin
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AdminUser
// @Router /auth/me [get]
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	user, err := ctrl.authService.GetAdmin(userID.(uint))
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			apperrors.Unauthorized(c, "Account no longer exists")
			return
		}
		apperrors.InternalError(c, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, user)
}
