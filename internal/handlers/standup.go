package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apierrors "github.com/ayatori/workspace-chat-api/internal/errors"
	"github.com/ayatori/workspace-chat-api/internal/middleware"
	"github.com/ayatori/workspace-chat-api/internal/services"
	"github.com/gin-gonic/gin"
)

// StandupHandler coordinates standup window HTTP handlers.
type StandupHandler struct {
	standupService *services.StandupService
}

// NewStandupHandler creates a new StandupHandler.
func NewStandupHandler(standupService *services.StandupService) *StandupHandler {
	return &StandupHandler{
		standupService: standupService,
	}
}

// Start opens a standup window and returns the unix time it closes.
func (h *StandupHandler) Start(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	// length has no "required" tag: a zero-length standup is legal and
	// closes immediately
	type StartRequest struct {
		ChannelID uint64 `json:"channel_id" binding:"required"`
		Length    int64  `json:"length" binding:"min=0"`
	}

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	finish, err := h.standupService.Start(userID, req.ChannelID, req.Length)
	if err != nil {
		respondStandupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"time_finish": finish})
}

// Active reports whether a standup is running and when it finishes.
// time_finish is null when no window is open.
func (h *StandupHandler) Active(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	channelID, err := strconv.ParseUint(c.Query("channel_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid channel_id")
		return
	}

	active, finish, err := h.standupService.Active(channelID)
	if err != nil {
		respondStandupError(c, err)
		return
	}

	var timeFinish any
	if active {
		timeFinish = finish
	}
	c.JSON(http.StatusOK, gin.H{
		"is_active":   active,
		"time_finish": timeFinish,
	})
}

// Send buffers a contribution to the channel's open standup window.
func (h *StandupHandler) Send(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SendRequest struct {
		ChannelID uint64 `json:"channel_id" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.standupService.Send(userID, req.ChannelID, req.Message); err != nil {
		respondStandupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contribution buffered"})
}

func respondStandupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChannelNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMessageTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrStandupRunning),
		errors.Is(err, services.ErrNoStandup):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
