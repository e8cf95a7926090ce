package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ayatori/workspace-chat-api/internal/constants"
	"github.com/ayatori/workspace-chat-api/internal/models"
	"github.com/ayatori/workspace-chat-api/internal/repository"
	"github.com/ayatori/workspace-chat-api/internal/store"
)

var (
	ErrUserNotFound      = errors.New("user does not exist")
	ErrInvalidHandle     = errors.New("handle must be between 2 and 20 characters")
	ErrHandleTaken       = errors.New("handle is already used by another user")
	ErrInvalidPermission = errors.New("permission id is not a valid permission")
	ErrNotWorkspaceOwner = errors.New("only workspace owners can perform this action")
)

// UserService provides profile and workspace administration logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Profile returns a user's public details. The reserved deleted-user id
// resolves to an anonymized placeholder so old messages stay renderable.
func (s *UserService) Profile(userID uint64) (*models.User, error) {
	if userID == constants.DeletedUserID {
		return &models.User{
			ID:        constants.DeletedUserID,
			NameFirst: "[removed]",
		}, nil
	}

	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// AllUsers returns every registered user in registration order.
func (s *UserService) AllUsers() []models.User {
	return s.userRepo.ListUsers()
}

// SetName updates the caller's first and last name, including the cached
// copies on their channel memberships.
func (s *UserService) SetName(userID uint64, nameFirst, nameLast string) error {
	if !validNameLength(nameFirst) || !validNameLength(nameLast) {
		return ErrInvalidName
	}
	if err := s.userRepo.SetUserName(userID, nameFirst, nameLast); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update name: %w", err)
	}
	return nil
}

// SetEmail updates the caller's email address.
func (s *UserService) SetEmail(userID uint64, email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if err := s.userRepo.SetUserEmail(userID, email); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailTaken):
			return ErrEmailTaken
		case errors.Is(err, store.ErrUserNotFound):
			return ErrUserNotFound
		default:
			return fmt.Errorf("failed to update email: %w", err)
		}
	}
	return nil
}

// SetHandle updates the caller's handle.
func (s *UserService) SetHandle(userID uint64, handle string) error {
	if n := utf8.RuneCountInString(handle); n < constants.MinHandleLength || n > constants.MaxHandleLength {
		return ErrInvalidHandle
	}
	if err := s.userRepo.SetUserHandle(userID, handle); err != nil {
		switch {
		case errors.Is(err, store.ErrHandleTaken):
			return ErrHandleTaken
		case errors.Is(err, store.ErrUserNotFound):
			return ErrUserNotFound
		default:
			return fmt.Errorf("failed to update handle: %w", err)
		}
	}
	return nil
}

// ChangePermission sets a user's global permission id. Workspace owners only.
func (s *UserService) ChangePermission(actorID, targetID uint64, permissionID int) error {
	if _, err := s.userRepo.GetUser(targetID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !constants.ValidPermissionID(permissionID) {
		return ErrInvalidPermission
	}
	if err := s.requireWorkspaceOwner(actorID); err != nil {
		return err
	}
	if err := s.userRepo.SetPermission(targetID, permissionID); err != nil {
		return fmt.Errorf("failed to set permission: %w", err)
	}
	return nil
}

// RemoveUser removes a user from the workspace. Their authored messages are
// anonymized, not deleted. Workspace owners only.
func (s *UserService) RemoveUser(actorID, targetID uint64) error {
	if err := s.requireWorkspaceOwner(actorID); err != nil {
		return err
	}
	if err := s.userRepo.RemoveUser(targetID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to remove user: %w", err)
	}
	return nil
}

func (s *UserService) requireWorkspaceOwner(userID uint64) error {
	actor, err := s.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !actor.IsWorkspaceOwner() {
		return ErrNotWorkspaceOwner
	}
	return nil
}
