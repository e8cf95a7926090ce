package store

import (
	"time"

	"github.com/ayatori/workspace-chat-api/internal/models"
)

// CreateChannel creates a channel with the creator as its sole member and
// sole owner, and returns the new channel id.
func (s *Store) CreateChannel(name string, isPublic bool, creatorID uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creator, ok := s.users[creatorID]
	if !ok {
		return 0, ErrUserNotFound
	}

	channel := &models.Channel{
		ID:        s.nextChannelID,
		Name:      name,
		IsPublic:  isPublic,
		CreatedAt: time.Now(),
		Members: []models.ChannelMember{{
			UserID:    creatorID,
			NameFirst: creator.NameFirst,
			NameLast:  creator.NameLast,
			IsOwner:   true,
			JoinedAt:  time.Now(),
		}},
	}
	s.nextChannelID++
	s.channels[channel.ID] = channel
	s.channelOrder = append(s.channelOrder, channel.ID)
	s.channelMessages[channel.ID] = nil
	return channel.ID, nil
}

// GetChannel returns a deep copy of the channel, members included.
func (s *Store) GetChannel(id uint64) (*models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channel, ok := s.channels[id]
	if !ok {
		return nil, ErrChannelNotFound
	}
	return copyChannel(channel), nil
}

// ListChannels returns all channels in creation order.
func (s *Store) ListChannels() []models.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channels := make([]models.Channel, 0, len(s.channelOrder))
	for _, id := range s.channelOrder {
		channels = append(channels, *copyChannel(s.channels[id]))
	}
	return channels
}

// ListChannelsForUser returns the channels the user belongs to, in channel
// creation order.
func (s *Store) ListChannelsForUser(userID uint64) []models.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var channels []models.Channel
	for _, id := range s.channelOrder {
		channel := s.channels[id]
		if memberIndex(channel, userID) >= 0 {
			channels = append(channels, *copyChannel(channel))
		}
	}
	return channels
}

// AddMember adds a user to a channel with a cached display-name snapshot.
// Returns ErrAlreadyMember when the user is already in the channel; callers
// decide whether that is an error (invite) or a no-op (join).
func (s *Store) AddMember(channelID, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return ErrChannelNotFound
	}
	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if memberIndex(channel, userID) >= 0 {
		return ErrAlreadyMember
	}

	channel.Members = append(channel.Members, models.ChannelMember{
		UserID:    userID,
		NameFirst: user.NameFirst,
		NameLast:  user.NameLast,
		JoinedAt:  time.Now(),
	})
	return nil
}

// RemoveMember removes a user from a channel's members and owners.
func (s *Store) RemoveMember(channelID, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return ErrChannelNotFound
	}
	i := memberIndex(channel, userID)
	if i < 0 {
		return ErrNotMember
	}
	channel.Members = append(channel.Members[:i], channel.Members[i+1:]...)
	return nil
}

// IsMember reports channel membership.
func (s *Store) IsMember(channelID, userID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return false, ErrChannelNotFound
	}
	return memberIndex(channel, userID) >= 0, nil
}

// IsOwner reports channel ownership.
func (s *Store) IsOwner(channelID, userID uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return false, ErrChannelNotFound
	}
	i := memberIndex(channel, userID)
	return i >= 0 && channel.Members[i].IsOwner, nil
}

// PromoteOwner marks a user as a channel owner. A target that is not yet a
// member is added as one first, keeping owners a subset of members.
func (s *Store) PromoteOwner(channelID, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return ErrChannelNotFound
	}
	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}

	i := memberIndex(channel, userID)
	if i < 0 {
		channel.Members = append(channel.Members, models.ChannelMember{
			UserID:    userID,
			NameFirst: user.NameFirst,
			NameLast:  user.NameLast,
			IsOwner:   true,
			JoinedAt:  time.Now(),
		})
		return nil
	}
	if channel.Members[i].IsOwner {
		return ErrAlreadyOwner
	}
	channel.Members[i].IsOwner = true
	return nil
}

// DemoteOwner removes a user's channel ownership, leaving membership intact.
func (s *Store) DemoteOwner(channelID, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return ErrChannelNotFound
	}
	i := memberIndex(channel, userID)
	if i < 0 || !channel.Members[i].IsOwner {
		return ErrNotOwner
	}
	channel.Members[i].IsOwner = false
	return nil
}

func memberIndex(channel *models.Channel, userID uint64) int {
	for i := range channel.Members {
		if channel.Members[i].UserID == userID {
			return i
		}
	}
	return -1
}

func copyChannel(channel *models.Channel) *models.Channel {
	copied := *channel
	copied.Members = append([]models.ChannelMember(nil), channel.Members...)
	copied.StandupQueue = append([]models.StandupEntry(nil), channel.StandupQueue...)
	return &copied
}
