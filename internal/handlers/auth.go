package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArnavKarwa07/Automated-EDA/internal/auth"
	apierrors "github.com/ArnavKarwa07/Automated-EDA/internal/errors"
	"github.com/ArnavKarwa07/Automated-EDA/internal/logger"
	"github.com/gin-gonic/gin"
)

// Register creates a new account
// POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest("invalid registration payload").WithDetails(err.Error()).Respond(c)
		return
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			apierrors.AlreadyExists("account").Respond(c)
		case errors.Is(err, auth.ErrUsernameExists):
			apierrors.AlreadyExists("username").Respond(c)
		default:
			logger.ErrorWithFields("registration failed", err)
			apierrors.InternalError("registration failed").Respond(c)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates with email and password
// POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest("invalid login payload").WithDetails(err.Error()).Respond(c)
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		// Same response for unknown email and wrong password
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidCredentials) {
			apierrors.Unauthorized("invalid email or password").Respond(c)
			return
		}
		logger.ErrorWithFields("login failed", err)
		apierrors.InternalError("login failed").Respond(c)
		return
	}

	ok(c, resp)
}

// Refresh issues a fresh token for the authenticated user
// POST /api/v1/auth/refresh
func (h *Handlers) Refresh(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	resp, err := h.authService.Refresh(user)
	if err != nil {
		logger.ErrorWithFields("token refresh failed", err)
		apierrors.InternalError("token refresh failed").Respond(c)
		return
	}
	ok(c, resp)
}

// Me returns the authenticated user
// GET /api/v1/auth/me
func (h *Handlers) Me(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	ok(c, gin.H{"user": user})
}

// PasswordResetRequestBody is the request-reset payload
type PasswordResetRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetRequest creates a reset token and mails it.
// Always returns 200 so callers cannot probe which emails exist.
// POST /api/v1/auth/password-reset/request
func (h *Handlers) PasswordResetRequest(c *gin.Context) {
	var req PasswordResetRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest("invalid payload").WithDetails(err.Error()).Respond(c)
		return
	}

	token, err := h.authService.RequestPasswordReset(req.Email)
	if err != nil {
		logger.ErrorWithFields("password reset request failed", err)
		apierrors.InternalError("password reset request failed").Respond(c)
		return
	}

	if token != nil {
		if err := h.mailer.SendPasswordResetEmail(c.Request.Context(), req.Email, token.Token); err != nil {
			logger.ErrorWithFields("failed to send password reset email", err)
		}
	}

	ok(c, gin.H{"message": "if the account exists, a reset email has been sent"})
}

// PasswordResetConfirmBody is the confirm payload
type PasswordResetConfirmBody struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// PasswordResetConfirm consumes a reset token and sets the new password
// POST /api/v1/auth/password-reset/confirm
func (h *Handlers) PasswordResetConfirm(c *gin.Context) {
	var req PasswordResetConfirmBody
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest("invalid payload").WithDetails(err.Error()).Respond(c)
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		apierrors.BadRequest("invalid or expired reset token").Respond(c)
		return
	}

	ok(c, gin.H{"message": "password updated"})
}

// AuthMiddleware validates the Bearer token and loads the user into context
func (h *Handlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			// Browser WebSocket clients cannot set headers
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			apierrors.Unauthorized("no token provided").Respond(c)
			return
		}

		user, err := h.authService.ValidateToken(tokenString)
		if err != nil {
			apierrors.Unauthorized("invalid token").Respond(c)
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// AdminOnly rejects non-admin users. Must run after AuthMiddleware.
func (h *Handlers) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, found := currentUser(c)
		if !found {
			return
		}
		if !user.IsAdmin {
			apierrors.Forbidden("admin access required").Respond(c)
			return
		}
		c.Next()
	}
}
