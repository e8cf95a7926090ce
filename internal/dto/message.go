package dto

import "github.com/ayatori/workspace-chat-api/internal/models"

// ReactDTO represents one react kind on a message, relative to the requester
type ReactDTO struct {
	ReactID           int64    `json:"react_id"`
	UserIDs           []uint64 `json:"u_ids"`
	IsThisUserReacted bool     `json:"is_this_user_reacted"`
}

// MessageDTO represents a message in API responses
type MessageDTO struct {
	ID          uint64     `json:"message_id"`
	UserID      uint64     `json:"u_id"`
	Body        string     `json:"message"`
	TimeCreated int64      `json:"time_created"`
	Reacts      []ReactDTO `json:"reacts"`
	IsPinned    bool       `json:"is_pinned"`
}

// ToMessageDTO converts a Message model to MessageDTO. The requester id
// drives the is_this_user_reacted flags.
func ToMessageDTO(message models.Message, requesterID uint64) MessageDTO {
	reacts := make([]ReactDTO, len(message.Reacts))
	for i, react := range message.Reacts {
		reacts[i] = ReactDTO{
			ReactID:           react.ReactID,
			UserIDs:           react.UserIDs,
			IsThisUserReacted: react.HasUser(requesterID),
		}
	}
	return MessageDTO{
		ID:          message.ID,
		UserID:      message.UserID,
		Body:        message.Body,
		TimeCreated: message.TimeCreated,
		Reacts:      reacts,
		IsPinned:    message.IsPinned,
	}
}

// ToMessageDTOs converts a slice of messages relative to one requester
func ToMessageDTOs(messages []models.Message, requesterID uint64) []MessageDTO {
	out := make([]MessageDTO, len(messages))
	for i, message := range messages {
		out[i] = ToMessageDTO(message, requesterID)
	}
	return out
}
