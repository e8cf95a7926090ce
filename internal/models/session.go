package models

import "time"

// Session is an active login token. Tokens are opaque strings here; the auth
// service decides what they contain.
type Session struct {
	Token     string    `gorm:"primarykey;type:varchar(512)" json:"-"`
	UserID    uint64    `gorm:"index;not null" json:"u_id"`
	CreatedAt time.Time `json:"-"`
}

// WorkspaceState is the single-row table carrying the id counters across
// snapshot round trips.
type WorkspaceState struct {
	ID            uint64 `gorm:"primarykey"`
	NextUserID    uint64 `gorm:"not null"`
	NextChannelID uint64 `gorm:"not null"`
	NextMessageID uint64 `gorm:"not null"`
}
