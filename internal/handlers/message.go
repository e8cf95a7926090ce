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

// MessageHandler coordinates message ledger HTTP handlers.
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// Send posts a message to a channel the caller belongs to.
func (h *MessageHandler) Send(c *gin.Context) {
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

	messageID, err := h.messageService.Send(userID, req.ChannelID, req.Message)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message_id": messageID})
}

// SendLater schedules a message for a future time. The id is returned
// immediately; the message appears in the channel at time_sent.
func (h *MessageHandler) SendLater(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SendLaterRequest struct {
		ChannelID uint64 `json:"channel_id" binding:"required"`
		Message   string `json:"message" binding:"required"`
		TimeSent  int64  `json:"time_sent" binding:"required"`
	}

	var req SendLaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	messageID, err := h.messageService.SendLater(userID, req.ChannelID, req.Message, req.TimeSent)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message_id": messageID})
}

// Page returns up to 50 of a channel's messages, most recent first. The
// returned end offset is -1 when the oldest message is included.
func (h *MessageHandler) Page(c *gin.Context) {
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
	start, err := strconv.Atoi(c.Query("start"))
	if err != nil || start < 0 {
		apierrors.BadRequest(c, "Invalid start")
		return
	}

	messages, end, err := h.messageService.Page(userID, channelID, start)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": dto.ToMessageDTOs(messages, userID),
		"start":    start,
		"end":      end,
	})
}

// Edit replaces a message's body; an empty body removes the message.
func (h *MessageHandler) Edit(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type EditRequest struct {
		MessageID uint64 `json:"message_id" binding:"required"`
		Message   string `json:"message"`
	}

	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.messageService.Edit(userID, req.MessageID, req.Message); err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message updated"})
}

// Remove deletes a message from its channel.
func (h *MessageHandler) Remove(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type RemoveRequest struct {
		MessageID uint64 `json:"message_id" binding:"required"`
	}

	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.messageService.Remove(userID, req.MessageID); err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message removed"})
}

// Pin marks a message as pinned.
func (h *MessageHandler) Pin(c *gin.Context) {
	h.setPinned(c, true)
}

// Unpin unmarks a pinned message.
func (h *MessageHandler) Unpin(c *gin.Context) {
	h.setPinned(c, false)
}

func (h *MessageHandler) setPinned(c *gin.Context, pinned bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type PinRequest struct {
		MessageID uint64 `json:"message_id" binding:"required"`
	}

	var req PinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var err error
	if pinned {
		err = h.messageService.Pin(userID, req.MessageID)
	} else {
		err = h.messageService.Unpin(userID, req.MessageID)
	}
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pin updated"})
}

// React attaches a react to a message.
func (h *MessageHandler) React(c *gin.Context) {
	h.setReact(c, true)
}

// Unreact removes the caller's react from a message.
func (h *MessageHandler) Unreact(c *gin.Context) {
	h.setReact(c, false)
}

func (h *MessageHandler) setReact(c *gin.Context, add bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type ReactRequest struct {
		MessageID uint64 `json:"message_id" binding:"required"`
		ReactID   int64  `json:"react_id" binding:"required"`
	}

	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var err error
	if add {
		err = h.messageService.React(userID, req.MessageID, req.ReactID)
	} else {
		err = h.messageService.Unreact(userID, req.MessageID, req.ReactID)
	}
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "React updated"})
}

// Search returns messages across the caller's channels matching a query.
func (h *MessageHandler) Search(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	query := c.Query("query_str")
	messages := h.messageService.Search(userID, query)
	c.JSON(http.StatusOK, gin.H{"messages": dto.ToMessageDTOs(messages, userID)})
}

func respondMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrChannelNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMessageTooLong),
		errors.Is(err, services.ErrInvalidReact),
		errors.Is(err, services.ErrInvalidPageStart),
		errors.Is(err, services.ErrTimeInPast):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrNotAuthorized):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyReacted),
		errors.Is(err, services.ErrNotReacted),
		errors.Is(err, services.ErrAlreadyPinned),
		errors.Is(err, services.ErrNotPinned):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
