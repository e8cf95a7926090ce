package store

import (
	"strings"

	"github.com/ayatori/workspace-chat-api/internal/constants"
	"github.com/ayatori/workspace-chat-api/internal/models"
)

// ReserveMessageID hands out the next message id without creating a
// message. Used by delayed sends so the id is fixed at schedule time.
func (s *Store) ReserveMessageID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextMessageID
	s.nextMessageID++
	return id
}

// AppendMessage records a message in its channel's ledger. A zero id is
// replaced with the next global id; a non-zero id (reserved earlier) is
// kept as is.
func (s *Store) AppendMessage(message *models.Message) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[message.ChannelID]; !ok {
		return 0, ErrChannelNotFound
	}

	if message.ID == 0 {
		message.ID = s.nextMessageID
		s.nextMessageID++
	}
	if message.Reacts == nil {
		message.Reacts = []models.React{}
	}

	stored := *message
	s.messages[message.ID] = &stored
	s.messageOrder = append(s.messageOrder, message.ID)
	s.channelMessages[message.ChannelID] = append(s.channelMessages[message.ChannelID], message.ID)
	return message.ID, nil
}

// GetMessage returns a copy of a live message.
func (s *Store) GetMessage(id uint64) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	message, ok := s.messages[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	return copyMessage(message), nil
}

// PageMessages returns up to MessagesPerPage messages of a channel,
// most recent first, starting at offset start. The returned end is
// start+MessagesPerPage when more remain, -1 otherwise. A start equal to
// the message count yields an empty final page; anything beyond it is out
// of range.
func (s *Store) PageMessages(channelID uint64, start int) ([]models.Message, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, ok := s.channelMessages[channelID]
	if !ok {
		if _, exists := s.channels[channelID]; !exists {
			return nil, 0, ErrChannelNotFound
		}
	}
	total := len(ids)
	if start > total {
		return nil, 0, ErrPageOutOfRange
	}

	messages := []models.Message{}
	for i := total - 1 - start; i >= 0 && len(messages) < constants.MessagesPerPage; i-- {
		messages = append(messages, *copyMessage(s.messages[ids[i]]))
	}

	end := -1
	if start+constants.MessagesPerPage < total {
		end = start + constants.MessagesPerPage
	}
	return messages, end, nil
}

// EditMessage replaces a live message's body in place.
func (s *Store) EditMessage(id uint64, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}
	message.Body = body
	return nil
}

// RemoveMessage moves a live message to the tombstone log, preserving its
// channel, author, body and original timestamp.
func (s *Store) RemoveMessage(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}

	s.removed = append(s.removed, models.RemovedMessage{
		ID:          message.ID,
		ChannelID:   message.ChannelID,
		UserID:      message.UserID,
		Body:        message.Body,
		TimeCreated: message.TimeCreated,
	})
	delete(s.messages, id)

	ids := s.channelMessages[message.ChannelID]
	for i, mid := range ids {
		if mid == id {
			s.channelMessages[message.ChannelID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	for i, mid := range s.messageOrder {
		if mid == id {
			s.messageOrder = append(s.messageOrder[:i], s.messageOrder[i+1:]...)
			break
		}
	}
	return nil
}

// SetPinned marks or unmarks a message as pinned.
func (s *Store) SetPinned(id uint64, pinned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}
	if message.IsPinned == pinned {
		if pinned {
			return ErrAlreadyPinned
		}
		return ErrNotPinned
	}
	message.IsPinned = pinned
	return nil
}

// AddReact attaches a (user, react kind) pair to a message.
func (s *Store) AddReact(id, userID uint64, reactID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}

	for i := range message.Reacts {
		if message.Reacts[i].ReactID != reactID {
			continue
		}
		if message.Reacts[i].HasUser(userID) {
			return ErrAlreadyReacted
		}
		message.Reacts[i].UserIDs = append(message.Reacts[i].UserIDs, userID)
		return nil
	}

	message.Reacts = append(message.Reacts, models.React{
		ReactID: reactID,
		UserIDs: []uint64{userID},
	})
	return nil
}

// RemoveReact detaches a (user, react kind) pair from a message. A react
// kind left with no users is dropped entirely.
func (s *Store) RemoveReact(id, userID uint64, reactID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}

	for i := range message.Reacts {
		if message.Reacts[i].ReactID != reactID {
			continue
		}
		for j, uid := range message.Reacts[i].UserIDs {
			if uid == userID {
				message.Reacts[i].UserIDs = append(message.Reacts[i].UserIDs[:j], message.Reacts[i].UserIDs[j+1:]...)
				if len(message.Reacts[i].UserIDs) == 0 {
					message.Reacts = append(message.Reacts[:i], message.Reacts[i+1:]...)
				}
				return nil
			}
		}
		return ErrNotReacted
	}
	return ErrNotReacted
}

// SearchMessages returns messages containing query (case-insensitive)
// across the channels the requester belongs to, most recent first.
func (s *Store) SearchMessages(userID uint64, query string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	var result []models.Message
	for i := len(s.messageOrder) - 1; i >= 0; i-- {
		message := s.messages[s.messageOrder[i]]
		if !strings.Contains(strings.ToLower(message.Body), needle) {
			continue
		}
		channel, ok := s.channels[message.ChannelID]
		if !ok || memberIndex(channel, userID) < 0 {
			continue
		}
		result = append(result, *copyMessage(message))
	}
	return result
}

// RemovedMessages returns a copy of the tombstone log.
func (s *Store) RemovedMessages() []models.RemovedMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RemovedMessage(nil), s.removed...)
}

func copyMessage(message *models.Message) *models.Message {
	copied := *message
	copied.Reacts = make([]models.React, len(message.Reacts))
	for i, react := range message.Reacts {
		copied.Reacts[i] = models.React{
			ReactID: react.ReactID,
			UserIDs: append([]uint64(nil), react.UserIDs...),
		}
	}
	return &copied
}
