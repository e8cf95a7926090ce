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

// ChannelHandler coordinates channel membership HTTP handlers.
type ChannelHandler struct {
	channelService *services.ChannelService
}

// NewChannelHandler creates a new ChannelHandler.
func NewChannelHandler(channelService *services.ChannelService) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
	}
}

// Create makes a new channel with the caller as sole member and owner.
func (h *ChannelHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateRequest struct {
		Name     string `json:"name" binding:"required"`
		IsPublic *bool  `json:"is_public" binding:"required"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	channelID, err := h.channelService.Create(userID, req.Name, *req.IsPublic)
	if err != nil {
		respondChannelError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"channel_id": channelID})
}

// List returns the channels the caller belongs to.
func (h *ChannelHandler) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	channels := h.channelService.ListForUser(userID)
	c.JSON(http.StatusOK, gin.H{"channels": dto.ToChannelDTOs(channels)})
}

// ListAll returns every channel in the workspace, public or not.
func (h *ChannelHandler) ListAll(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": dto.ToChannelDTOs(h.channelService.ListAll())})
}

// Details returns a channel's name and member lists. Members only.
func (h *ChannelHandler) Details(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	channelID, err := strconv.ParseUint(c.Query("channel_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid channel_id")
		return
	}

	channel, err := h.channelService.Details(userID, channelID)
	if err != nil {
		respondChannelError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChannelDetailsDTO(*channel))
}

// Join adds the caller to a channel.
func (h *ChannelHandler) Join(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type JoinRequest struct {
		ChannelID uint64 `json:"channel_id" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.channelService.Join(userID, req.ChannelID); err != nil {
		respondChannelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined channel"})
}

// Invite adds another user to a channel the caller belongs to.
func (h *ChannelHandler) Invite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type InviteRequest struct {
		ChannelID uint64 `json:"channel_id" binding:"required"`
		UserID    uint64 `json:"u_id" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.channelService.Invite(userID, req.ChannelID, req.UserID); err != nil {
		respondChannelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User invited"})
}

// Leave removes the caller from a channel.
func (h *ChannelHandler) Leave(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type LeaveRequest struct {
		ChannelID uint64 `json:"channel_id" binding:"required"`
	}

	var req LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.channelService.Leave(userID, req.ChannelID); err != nil {
		respondChannelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left channel"})
}

// AddOwner grants channel ownership to another member.
func (h *ChannelHandler) AddOwner(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type OwnerRequest struct {
		ChannelID uint64 `json:"channel_id" binding:"required"`
		UserID    uint64 `json:"u_id" binding:"required"`
	}

	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.channelService.AddOwner(userID, req.ChannelID, req.UserID); err != nil {
		respondChannelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Owner added"})
}

// RemoveOwner revokes channel ownership from a member.
func (h *ChannelHandler) RemoveOwner(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type OwnerRequest struct {
		ChannelID uint64 `json:"channel_id" binding:"required"`
		UserID    uint64 `json:"u_id" binding:"required"`
	}

	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.channelService.RemoveOwner(userID, req.ChannelID, req.UserID); err != nil {
		respondChannelError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Owner removed"})
}

func respondChannelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChannelNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidChannelName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPrivateChannel),
		errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrNotAuthorized):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrAlreadyOwner),
		errors.Is(err, services.ErrNotOwner):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
