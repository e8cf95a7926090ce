package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ayatori/workspace-chat-api/internal/constants"
	"github.com/ayatori/workspace-chat-api/internal/dto"
	apierrors "github.com/ayatori/workspace-chat-api/internal/errors"
	"github.com/ayatori/workspace-chat-api/internal/middleware"
	"github.com/ayatori/workspace-chat-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user and returns their id with a fresh token.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		NameFirst string `json:"name_first" binding:"required"`
		NameLast  string `json:"name_last" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		NameFirst: req.NameFirst,
		NameLast:  req.NameLast,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"u_id":  user.ID,
		"token": token,
	})
}

// Login authenticates a user and returns a fresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"u_id":  user.ID,
		"token": token,
	})
}

// Logout invalidates the token that authenticated this request.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, exists := middleware.GetToken(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.authService.Logout(token); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user's profile.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// PasswordResetRequest issues a reset code for a registered email. The
// response is identical for unknown emails.
func (h *AuthHandler) PasswordResetRequest(c *gin.Context) {
	type ResetRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.PasswordResetRequest(req.Email); err != nil {
		apierrors.InternalError(c, "Failed to issue reset code")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reset code issued",
	})
}

// PasswordResetReset redeems a reset code for a new password.
func (h *AuthHandler) PasswordResetReset(c *gin.Context) {
	type ResetRequest struct {
		ResetCode   string `json:"reset_code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.PasswordResetReset(req.ResetCode, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated",
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrInvalidResetCode):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
