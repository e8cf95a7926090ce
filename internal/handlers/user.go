package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ayatori/workspace-chat-api/internal/dto"
	apierrors "github.com/ayatori/workspace-chat-api/internal/errors"
	"github.com/ayatori/workspace-chat-api/internal/middleware"
	"github.com/ayatori/workspace-chat-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserHandler coordinates profile and workspace-administration handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Profile returns the profile identified by the u_id query parameter.
func (h *UserHandler) Profile(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Query("u_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid u_id")
		return
	}

	user, err := h.userService.Profile(targetID)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

// All returns every registered user in registration order.
func (h *UserHandler) All(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(h.userService.AllUsers())})
}

// SetName updates the caller's first and last name.
func (h *UserHandler) SetName(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SetNameRequest struct {
		NameFirst string `json:"name_first" binding:"required"`
		NameLast  string `json:"name_last" binding:"required"`
	}

	var req SetNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.SetName(userID, req.NameFirst, req.NameLast); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Name updated"})
}

// SetEmail updates the caller's email address.
func (h *UserHandler) SetEmail(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SetEmailRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req SetEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.SetEmail(userID, req.Email); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email updated"})
}

// SetHandle updates the caller's handle.
func (h *UserHandler) SetHandle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SetHandleRequest struct {
		Handle string `json:"handle_str" binding:"required"`
	}

	var req SetHandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.SetHandle(userID, req.Handle); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Handle updated"})
}

// ChangePermission sets a user's global permission id. Workspace owners only.
func (h *UserHandler) ChangePermission(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ChangePermissionRequest struct {
		UserID       uint64 `json:"u_id" binding:"required"`
		PermissionID int    `json:"permission_id" binding:"required"`
	}

	var req ChangePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangePermission(userID, req.UserID, req.PermissionID); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permission updated"})
}

// Remove deletes a user from the workspace. Workspace owners only.
func (h *UserHandler) Remove(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type RemoveRequest struct {
		UserID uint64 `json:"u_id" binding:"required"`
	}

	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.RemoveUser(userID, req.UserID); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidHandle),
		errors.Is(err, services.ErrInvalidPermission):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrHandleTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotWorkspaceOwner):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
