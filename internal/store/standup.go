package store

import "github.com/ayatori/workspace-chat-api/internal/models"

// OpenStandup transitions a channel's standup window from idle to open.
func (s *Store) OpenStandup(channelID uint64, finish int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return ErrChannelNotFound
	}
	if channel.StandupActive {
		return ErrStandupActive
	}
	channel.StandupActive = true
	channel.StandupFinish = finish
	channel.StandupQueue = nil
	return nil
}

// AppendStandupEntry buffers one contribution to an open window.
func (s *Store) AppendStandupEntry(channelID uint64, name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return ErrChannelNotFound
	}
	if !channel.StandupActive {
		return ErrStandupIdle
	}
	channel.StandupQueue = append(channel.StandupQueue, models.StandupEntry{
		ChannelID: channelID,
		Name:      name,
		Text:      text,
	})
	return nil
}

// CloseStandup drains the buffer and returns the window to idle in one
// critical section. Contributions arriving after the close observe an idle
// window and are rejected.
func (s *Store) CloseStandup(channelID uint64) ([]models.StandupEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return nil, ErrChannelNotFound
	}
	if !channel.StandupActive {
		return nil, ErrStandupIdle
	}
	entries := channel.StandupQueue
	channel.StandupActive = false
	channel.StandupFinish = 0
	channel.StandupQueue = nil
	return entries, nil
}

// StandupStatus reports whether a window is open and when it closes.
func (s *Store) StandupStatus(channelID uint64) (bool, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	channel, ok := s.channels[channelID]
	if !ok {
		return false, 0, ErrChannelNotFound
	}
	return channel.StandupActive, channel.StandupFinish, nil
}
