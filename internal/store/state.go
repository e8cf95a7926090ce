package store

import "github.com/ayatori/workspace-chat-api/internal/models"

// State is a deep copy of everything the Store holds, used by the snapshot
// layer to persist and restore the workspace.
type State struct {
	Users    []models.User
	Channels []models.Channel
	Messages []models.Message
	Removed  []models.RemovedMessage
	Sessions []models.Session

	NextUserID    uint64
	NextChannelID uint64
	NextMessageID uint64
}

// State captures a consistent deep copy of the store under a read lock.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := State{
		NextUserID:    s.nextUserID,
		NextChannelID: s.nextChannelID,
		NextMessageID: s.nextMessageID,
	}
	for _, id := range s.userOrder {
		state.Users = append(state.Users, *s.users[id])
	}
	for _, id := range s.channelOrder {
		state.Channels = append(state.Channels, *copyChannel(s.channels[id]))
	}
	for _, id := range s.messageOrder {
		state.Messages = append(state.Messages, *copyMessage(s.messages[id]))
	}
	state.Removed = append(state.Removed, s.removed...)
	for token, userID := range s.sessions {
		state.Sessions = append(state.Sessions, models.Session{Token: token, UserID: userID})
	}
	return state
}

// Restore replaces the store contents with a previously captured state.
// Pending deferred actions are not part of the state; their loss across a
// restart is accepted.
func (s *Store) Restore(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	for i := range state.Users {
		user := state.Users[i]
		s.users[user.ID] = &user
		s.userOrder = append(s.userOrder, user.ID)
		s.emailIndex[user.Email] = user.ID
		s.handleIndex[user.Handle] = user.ID
	}
	for i := range state.Channels {
		channel := *copyChannel(&state.Channels[i])
		s.channels[channel.ID] = &channel
		s.channelOrder = append(s.channelOrder, channel.ID)
		s.channelMessages[channel.ID] = nil
	}
	for i := range state.Messages {
		message := *copyMessage(&state.Messages[i])
		s.messages[message.ID] = &message
		s.messageOrder = append(s.messageOrder, message.ID)
		s.channelMessages[message.ChannelID] = append(s.channelMessages[message.ChannelID], message.ID)
	}
	s.removed = append(s.removed, state.Removed...)
	for _, session := range state.Sessions {
		s.sessions[session.Token] = session.UserID
	}

	s.nextUserID = maxCounter(state.NextUserID, 1)
	s.nextChannelID = maxCounter(state.NextChannelID, 1)
	s.nextMessageID = maxCounter(state.NextMessageID, 1)
}

func maxCounter(v, floor uint64) uint64 {
	if v < floor {
		return floor
	}
	return v
}
