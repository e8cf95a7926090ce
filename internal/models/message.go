package models

type Message struct {
	ID          uint64  `gorm:"primarykey" json:"message_id"`
	ChannelID   uint64  `gorm:"index;not null" json:"channel_id"`
	UserID      uint64  `json:"u_id"`
	Body        string  `gorm:"type:text" json:"message"`
	TimeCreated int64   `gorm:"not null" json:"time_created"`
	IsPinned    bool    `gorm:"not null" json:"is_pinned"`
	Reacts      []React `gorm:"serializer:json;type:text" json:"reacts"`
}

// React groups all users who attached a given react kind to a message.
// A (user, react kind) pair appears at most once per message.
type React struct {
	ReactID int64    `json:"react_id"`
	UserIDs []uint64 `json:"u_ids"`
}

// HasUser reports whether the given user is part of this react.
func (r React) HasUser(userID uint64) bool {
	for _, id := range r.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// RemovedMessage is a tombstone preserving a removed message for auditing.
// Tombstones are never served through normal read paths.
type RemovedMessage struct {
	ID          uint64 `gorm:"primarykey" json:"message_id"`
	ChannelID   uint64 `gorm:"index;not null" json:"channel_id"`
	UserID      uint64 `json:"u_id"`
	Body        string `gorm:"type:text" json:"message"`
	TimeCreated int64  `gorm:"not null" json:"time_created"`
}
