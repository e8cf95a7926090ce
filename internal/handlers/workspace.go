package handlers

import (
	"net/http"

	"github.com/ayatori/workspace-chat-api/internal/services"
	"github.com/gin-gonic/gin"
)

// WorkspaceHandler coordinates whole-workspace HTTP handlers.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
	}
}

// Reset clears all workspace state, sessions included.
func (h *WorkspaceHandler) Reset(c *gin.Context) {
	h.workspaceService.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Workspace reset"})
}
