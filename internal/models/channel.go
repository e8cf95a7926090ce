package models

import "time"

type Channel struct {
	ID        uint64    `gorm:"primarykey" json:"channel_id"`
	Name      string    `gorm:"type:varchar(20);not null" json:"name"`
	IsPublic  bool      `gorm:"not null" json:"is_public"`
	CreatedAt time.Time `json:"created_at"`

	// Standup window state. StandupFinish is a unix timestamp in seconds
	// and is zero while the window is idle.
	StandupActive bool  `json:"-"`
	StandupFinish int64 `json:"-"`

	// Relations
	Members      []ChannelMember `gorm:"foreignKey:ChannelID" json:"-"`
	StandupQueue []StandupEntry  `gorm:"foreignKey:ChannelID" json:"-"`
}

// ChannelMember records a user's membership in a channel together with a
// cached snapshot of their display name. The surrogate id preserves
// insertion order across snapshot round trips.
type ChannelMember struct {
	ID        uint64    `gorm:"primarykey" json:"-"`
	ChannelID uint64    `gorm:"index;not null" json:"-"`
	UserID    uint64    `gorm:"index;not null" json:"u_id"`
	NameFirst string    `gorm:"type:varchar(50)" json:"name_first"`
	NameLast  string    `gorm:"type:varchar(50)" json:"name_last"`
	IsOwner   bool      `gorm:"not null" json:"-"`
	JoinedAt  time.Time `json:"-"`
}

// StandupEntry is one buffered contribution to an open standup window.
// Name is the contributor's lowercased first name at the time of sending.
type StandupEntry struct {
	ID        uint64 `gorm:"primarykey" json:"-"`
	ChannelID uint64 `gorm:"index;not null" json:"-"`
	Name      string `gorm:"type:varchar(50)" json:"name"`
	Text      string `gorm:"type:text" json:"text"`
}
