package services

import (
	"github.com/ayatori/workspace-chat-api/internal/repository"
	"go.uber.org/zap"
)

// WorkspaceService handles whole-workspace administration.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	logger        *zap.Logger
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, logger *zap.Logger) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		logger:        logger,
	}
}

// Reset clears all workspace state, including active sessions, and restarts
// id numbering from one.
func (s *WorkspaceService) Reset() {
	s.workspaceRepo.Reset()
	s.logger.Info("workspace state cleared")
}
