package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ayatori/workspace-chat-api/internal/constants"
	"github.com/ayatori/workspace-chat-api/internal/models"
	"github.com/ayatori/workspace-chat-api/internal/repository"
	"github.com/ayatori/workspace-chat-api/internal/store"
	"go.uber.org/zap"
)

var (
	ErrStandupRunning = errors.New("a standup is already running in this channel")
	ErrNoStandup      = errors.New("no standup is running in this channel")
)

// StandupService coordinates per-channel standup windows. A window buffers
// contributions and flushes them as one digest message when it closes.
type StandupService struct {
	standupRepo repository.StandupRepository
	deferrer    Deferrer
	logger      *zap.Logger
}

// NewStandupService creates a new StandupService.
func NewStandupService(standupRepo repository.StandupRepository, deferrer Deferrer, logger *zap.Logger) *StandupService {
	return &StandupService{
		standupRepo: standupRepo,
		deferrer:    deferrer,
		logger:      logger,
	}
}

// Start opens a standup window for length seconds and returns its closing
// time. The digest is authored by the starter.
func (s *StandupService) Start(starterID, channelID uint64, length int64) (int64, error) {
	finish := time.Now().Unix() + length
	if err := s.standupRepo.OpenStandup(channelID, finish); err != nil {
		return 0, translateStandupErr(err)
	}
	s.deferrer.Schedule(time.Unix(finish, 0), "standup.flush", func() {
		s.flush(starterID, channelID)
	})
	return finish, nil
}

// Send buffers a contribution to the channel's open window. The entry is
// tagged with the sender's lowercased first name at send time.
func (s *StandupService) Send(senderID, channelID uint64, text string) error {
	if err := s.requireMember(channelID, senderID); err != nil {
		return err
	}
	if utf8.RuneCountInString(text) > constants.MaxMessageLength {
		return ErrMessageTooLong
	}

	user, err := s.standupRepo.GetUser(senderID)
	if err != nil {
		return translateStandupErr(err)
	}
	name := strings.ToLower(user.NameFirst)
	if err := s.standupRepo.AppendStandupEntry(channelID, name, text); err != nil {
		return translateStandupErr(err)
	}
	return nil
}

// Active reports whether a standup window is open and when it closes.
// Unlike Send, this is a plain status query open to any authenticated user.
func (s *StandupService) Active(channelID uint64) (bool, int64, error) {
	active, finish, err := s.standupRepo.StandupStatus(channelID)
	if err != nil {
		return false, 0, translateStandupErr(err)
	}
	return active, finish, nil
}

// flush closes the window and posts the digest. Contributions buffered
// after the close are rejected by the store, never silently dropped into
// the next window.
func (s *StandupService) flush(starterID, channelID uint64) {
	entries, err := s.standupRepo.CloseStandup(channelID)
	if err != nil {
		s.logger.Warn("standup flush skipped",
			zap.Uint64("channel_id", channelID),
			zap.Error(err),
		)
		return
	}

	var digest strings.Builder
	for _, entry := range entries {
		digest.WriteString(entry.Name)
		digest.WriteString(": ")
		digest.WriteString(entry.Text)
		digest.WriteString("\n")
	}

	message := &models.Message{
		ChannelID:   channelID,
		UserID:      starterID,
		Body:        digest.String(),
		TimeCreated: time.Now().Unix(),
	}
	if _, err := s.standupRepo.AppendMessage(message); err != nil {
		s.logger.Warn("standup digest dropped",
			zap.Uint64("channel_id", channelID),
			zap.Error(err),
		)
	}
}

func (s *StandupService) requireMember(channelID, userID uint64) error {
	isMember, err := s.standupRepo.IsMember(channelID, userID)
	if err != nil {
		return translateStandupErr(err)
	}
	if !isMember {
		return ErrNotMember
	}
	return nil
}

func translateStandupErr(err error) error {
	switch {
	case errors.Is(err, store.ErrChannelNotFound):
		return ErrChannelNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrStandupActive):
		return ErrStandupRunning
	case errors.Is(err, store.ErrStandupIdle):
		return ErrNoStandup
	default:
		return fmt.Errorf("standup operation failed: %w", err)
	}
}
