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
	ErrChannelNotFound    = errors.New("channel does not exist")
	ErrInvalidChannelName = errors.New("channel name must be between 1 and 20 characters")
	ErrPrivateChannel     = errors.New("channel is private")
	ErrNotMember          = errors.New("user is not a member of the channel")
	ErrAlreadyMember      = errors.New("user is already a member of the channel")
	ErrAlreadyOwner       = errors.New("user is already an owner of the channel")
	ErrNotOwner           = errors.New("user is not an owner of the channel")
	ErrNotAuthorized      = errors.New("user does not have permission to perform this action")
)

// ChannelService provides channel membership business logic. Authorization
// is always re-derived from current membership, never cached.
type ChannelService struct {
	channelRepo repository.ChannelRepository
	userRepo    repository.UserRepository
}

// NewChannelService creates a new ChannelService.
func NewChannelService(channelRepo repository.ChannelRepository, userRepo repository.UserRepository) *ChannelService {
	return &ChannelService{
		channelRepo: channelRepo,
		userRepo:    userRepo,
	}
}

// Create creates a channel; the creator becomes its sole member and owner.
func (s *ChannelService) Create(creatorID uint64, name string, isPublic bool) (uint64, error) {
	if n := utf8.RuneCountInString(name); n < constants.MinChannelNameLen || n > constants.MaxChannelNameLen {
		return 0, ErrInvalidChannelName
	}
	channelID, err := s.channelRepo.CreateChannel(name, isPublic, creatorID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to create channel: %w", err)
	}
	return channelID, nil
}

// ListForUser returns the channels the user is a member of.
func (s *ChannelService) ListForUser(userID uint64) []models.Channel {
	return s.channelRepo.ListChannelsForUser(userID)
}

// ListAll returns every channel in the workspace.
func (s *ChannelService) ListAll() []models.Channel {
	return s.channelRepo.ListChannels()
}

// Details returns a channel with its members. Members only.
func (s *ChannelService) Details(userID, channelID uint64) (*models.Channel, error) {
	if err := s.requireMember(channelID, userID); err != nil {
		return nil, err
	}
	channel, err := s.channelRepo.GetChannel(channelID)
	if err != nil {
		return nil, translateChannelErr(err)
	}
	return channel, nil
}

// Join adds the caller to a channel. Private channels admit only workspace
// owners this way; everyone else needs an invite. Joining a channel you are
// already in is a no-op.
func (s *ChannelService) Join(userID, channelID uint64) error {
	channel, err := s.channelRepo.GetChannel(channelID)
	if err != nil {
		return translateChannelErr(err)
	}

	if !channel.IsPublic {
		user, err := s.userRepo.GetUser(userID)
		if err != nil {
			return translateChannelErr(err)
		}
		if !user.IsWorkspaceOwner() {
			return ErrPrivateChannel
		}
	}

	if err := s.channelRepo.AddMember(channelID, userID); err != nil && !errors.Is(err, store.ErrAlreadyMember) {
		return translateChannelErr(err)
	}
	return nil
}

// Invite adds another user to a channel the inviter belongs to. Unlike
// Join, inviting someone who is already a member is a conflict.
func (s *ChannelService) Invite(inviterID, channelID, inviteeID uint64) error {
	if _, err := s.userRepo.GetUser(inviteeID); err != nil {
		return translateChannelErr(err)
	}
	if err := s.requireMember(channelID, inviterID); err != nil {
		return err
	}
	if err := s.channelRepo.AddMember(channelID, inviteeID); err != nil {
		return translateChannelErr(err)
	}
	return nil
}

// Leave removes the caller from a channel's members and owners.
func (s *ChannelService) Leave(userID, channelID uint64) error {
	if err := s.channelRepo.RemoveMember(channelID, userID); err != nil {
		return translateChannelErr(err)
	}
	return nil
}

// AddOwner grants channel ownership. The actor must be a workspace owner or
// an owner of the channel.
func (s *ChannelService) AddOwner(actorID, channelID, targetID uint64) error {
	if _, err := s.userRepo.GetUser(targetID); err != nil {
		return translateChannelErr(err)
	}
	if err := s.requireModerator(channelID, actorID); err != nil {
		return err
	}
	if err := s.channelRepo.PromoteOwner(channelID, targetID); err != nil {
		return translateChannelErr(err)
	}
	return nil
}

// RemoveOwner revokes channel ownership under the same rule as AddOwner.
func (s *ChannelService) RemoveOwner(actorID, channelID, targetID uint64) error {
	if _, err := s.userRepo.GetUser(targetID); err != nil {
		return translateChannelErr(err)
	}
	if err := s.requireModerator(channelID, actorID); err != nil {
		return err
	}
	if err := s.channelRepo.DemoteOwner(channelID, targetID); err != nil {
		return translateChannelErr(err)
	}
	return nil
}

func (s *ChannelService) requireMember(channelID, userID uint64) error {
	isMember, err := s.channelRepo.IsMember(channelID, userID)
	if err != nil {
		return translateChannelErr(err)
	}
	if !isMember {
		return ErrNotMember
	}
	return nil
}

// requireModerator passes for workspace owners and channel owners.
func (s *ChannelService) requireModerator(channelID, actorID uint64) error {
	actor, err := s.userRepo.GetUser(actorID)
	if err != nil {
		return translateChannelErr(err)
	}
	if actor.IsWorkspaceOwner() {
		return nil
	}
	isOwner, err := s.channelRepo.IsOwner(channelID, actorID)
	if err != nil {
		return translateChannelErr(err)
	}
	if !isOwner {
		return ErrNotAuthorized
	}
	return nil
}

func translateChannelErr(err error) error {
	switch {
	case errors.Is(err, store.ErrChannelNotFound):
		return ErrChannelNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrAlreadyMember):
		return ErrAlreadyMember
	case errors.Is(err, store.ErrNotMember):
		return ErrNotMember
	case errors.Is(err, store.ErrAlreadyOwner):
		return ErrAlreadyOwner
	case errors.Is(err, store.ErrNotOwner):
		return ErrNotOwner
	default:
		return fmt.Errorf("channel operation failed: %w", err)
	}
}
