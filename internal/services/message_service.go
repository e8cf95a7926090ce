package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/ayatori/workspace-chat-api/internal/constants"
	"github.com/ayatori/workspace-chat-api/internal/models"
	"github.com/ayatori/workspace-chat-api/internal/repository"
	"github.com/ayatori/workspace-chat-api/internal/store"
	"go.uber.org/zap"
)

var (
	ErrMessageNotFound  = errors.New("message does not exist")
	ErrMessageTooLong   = errors.New("message is more than 1000 characters")
	ErrInvalidReact     = errors.New("react id is not a valid react")
	ErrAlreadyReacted   = errors.New("message already has this react from you")
	ErrNotReacted       = errors.New("message has no such react from you")
	ErrAlreadyPinned    = errors.New("message is already pinned")
	ErrNotPinned        = errors.New("message is not pinned")
	ErrInvalidPageStart = errors.New("start exceeds the number of messages in the channel")
	ErrTimeInPast       = errors.New("send time is in the past")
)

// Deferrer registers an action to run at a future wall-clock time. The
// scheduler satisfies this.
type Deferrer interface {
	Schedule(fireAt time.Time, name string, action func())
}

// MessageService provides message ledger business logic. Every mutating
// operation re-derives authorization from current membership.
type MessageService struct {
	messageRepo repository.MessageRepository
	deferrer    Deferrer
	logger      *zap.Logger
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, deferrer Deferrer, logger *zap.Logger) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		deferrer:    deferrer,
		logger:      logger,
	}
}

// Send appends a message to a channel the sender belongs to and returns
// its id.
func (s *MessageService) Send(senderID, channelID uint64, body string) (uint64, error) {
	if err := s.requireMember(channelID, senderID); err != nil {
		return 0, err
	}
	if utf8.RuneCountInString(body) > constants.MaxMessageLength {
		return 0, ErrMessageTooLong
	}

	message := &models.Message{
		ChannelID:   channelID,
		UserID:      senderID,
		Body:        body,
		TimeCreated: time.Now().Unix(),
	}
	id, err := s.messageRepo.AppendMessage(message)
	if err != nil {
		return 0, translateMessageErr(err)
	}
	return id, nil
}

// SendLater registers a message to be appended at sendAt (unix seconds).
// The message id is assigned now, so callers can refer to it before it
// becomes visible; the payload is captured now, so later edits to source
// state cannot change what gets sent.
func (s *MessageService) SendLater(senderID, channelID uint64, body string, sendAt int64) (uint64, error) {
	if err := s.requireMember(channelID, senderID); err != nil {
		return 0, err
	}
	if utf8.RuneCountInString(body) > constants.MaxMessageLength {
		return 0, ErrMessageTooLong
	}
	if sendAt < time.Now().Unix() {
		return 0, ErrTimeInPast
	}

	id := s.messageRepo.ReserveMessageID()
	s.deferrer.Schedule(time.Unix(sendAt, 0), "message.sendlater", func() {
		message := &models.Message{
			ID:          id,
			ChannelID:   channelID,
			UserID:      senderID,
			Body:        body,
			TimeCreated: time.Now().Unix(),
		}
		if _, err := s.messageRepo.AppendMessage(message); err != nil {
			s.logger.Warn("delayed send dropped",
				zap.Uint64("message_id", id),
				zap.Uint64("channel_id", channelID),
				zap.Error(err),
			)
		}
	})
	return id, nil
}

// Page returns up to 50 of a channel's messages, most recent first,
// starting at offset start. Members only.
func (s *MessageService) Page(requesterID, channelID uint64, start int) ([]models.Message, int, error) {
	if err := s.requireMember(channelID, requesterID); err != nil {
		return nil, 0, err
	}
	messages, end, err := s.messageRepo.PageMessages(channelID, start)
	if err != nil {
		return nil, 0, translateMessageErr(err)
	}
	return messages, end, nil
}

// Edit replaces a message's body. An empty body removes the message
// instead. Permitted for the author, channel owners and workspace owners.
func (s *MessageService) Edit(editorID, messageID uint64, body string) error {
	if body == "" {
		return s.Remove(editorID, messageID)
	}

	message, err := s.messageRepo.GetMessage(messageID)
	if err != nil {
		return translateMessageErr(err)
	}
	if err := s.requireCanAlter(editorID, message); err != nil {
		return err
	}
	if err := s.messageRepo.EditMessage(messageID, body); err != nil {
		return translateMessageErr(err)
	}
	return nil
}

// Remove moves a message to the tombstone log under the same permission
// rule as Edit.
func (s *MessageService) Remove(removerID, messageID uint64) error {
	message, err := s.messageRepo.GetMessage(messageID)
	if err != nil {
		return translateMessageErr(err)
	}
	if err := s.requireCanAlter(removerID, message); err != nil {
		return err
	}
	if err := s.messageRepo.RemoveMessage(messageID); err != nil {
		return translateMessageErr(err)
	}
	return nil
}

// Pin marks a message as pinned. Caller must be a member and either a
// channel owner or a workspace owner.
func (s *MessageService) Pin(userID, messageID uint64) error {
	return s.setPinned(userID, messageID, true)
}

// Unpin unmarks a pinned message under the same rule as Pin.
func (s *MessageService) Unpin(userID, messageID uint64) error {
	return s.setPinned(userID, messageID, false)
}

func (s *MessageService) setPinned(userID, messageID uint64, pinned bool) error {
	message, err := s.messageRepo.GetMessage(messageID)
	if err != nil {
		return translateMessageErr(err)
	}
	if err := s.requireMember(message.ChannelID, userID); err != nil {
		return err
	}
	if err := s.requireModerator(message.ChannelID, userID); err != nil {
		return err
	}
	if err := s.messageRepo.SetPinned(messageID, pinned); err != nil {
		return translateMessageErr(err)
	}
	return nil
}

// React attaches a react to a message in one of the caller's channels.
func (s *MessageService) React(userID, messageID uint64, reactID int64) error {
	if !constants.ValidReactID(reactID) {
		return ErrInvalidReact
	}
	message, err := s.messageRepo.GetMessage(messageID)
	if err != nil {
		return translateMessageErr(err)
	}
	if err := s.requireMember(message.ChannelID, userID); err != nil {
		return err
	}
	if err := s.messageRepo.AddReact(messageID, userID, reactID); err != nil {
		return translateMessageErr(err)
	}
	return nil
}

// Unreact removes a react the caller previously attached.
func (s *MessageService) Unreact(userID, messageID uint64, reactID int64) error {
	if !constants.ValidReactID(reactID) {
		return ErrInvalidReact
	}
	message, err := s.messageRepo.GetMessage(messageID)
	if err != nil {
		return translateMessageErr(err)
	}
	if err := s.requireMember(message.ChannelID, userID); err != nil {
		return err
	}
	if err := s.messageRepo.RemoveReact(messageID, userID, reactID); err != nil {
		return translateMessageErr(err)
	}
	return nil
}

// Search returns messages containing query, case-insensitively, across the
// channels the requester belongs to, most recent first.
func (s *MessageService) Search(requesterID uint64, query string) []models.Message {
	return s.messageRepo.SearchMessages(requesterID, query)
}

// requireCanAlter passes for the message author, channel owners and
// workspace owners.
func (s *MessageService) requireCanAlter(userID uint64, message *models.Message) error {
	if message.UserID == userID {
		return nil
	}
	return s.requireModerator(message.ChannelID, userID)
}

func (s *MessageService) requireMember(channelID, userID uint64) error {
	isMember, err := s.messageRepo.IsMember(channelID, userID)
	if err != nil {
		return translateMessageErr(err)
	}
	if !isMember {
		return ErrNotMember
	}
	return nil
}

func (s *MessageService) requireModerator(channelID, userID uint64) error {
	user, err := s.messageRepo.GetUser(userID)
	if err != nil {
		return translateMessageErr(err)
	}
	if user.IsWorkspaceOwner() {
		return nil
	}
	isOwner, err := s.messageRepo.IsOwner(channelID, userID)
	if err != nil {
		return translateMessageErr(err)
	}
	if !isOwner {
		return ErrNotAuthorized
	}
	return nil
}

func translateMessageErr(err error) error {
	switch {
	case errors.Is(err, store.ErrMessageNotFound):
		return ErrMessageNotFound
	case errors.Is(err, store.ErrChannelNotFound):
		return ErrChannelNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrAlreadyReacted):
		return ErrAlreadyReacted
	case errors.Is(err, store.ErrNotReacted):
		return ErrNotReacted
	case errors.Is(err, store.ErrAlreadyPinned):
		return ErrAlreadyPinned
	case errors.Is(err, store.ErrNotPinned):
		return ErrNotPinned
	case errors.Is(err, store.ErrPageOutOfRange):
		return ErrInvalidPageStart
	default:
		return fmt.Errorf("message operation failed: %w", err)
	}
}
