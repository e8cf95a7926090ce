package models

import (
	"time"

	"github.com/ayatori/workspace-chat-api/internal/constants"
)

type User struct {
	ID            uint64    `gorm:"primarykey" json:"u_id"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	NameFirst     string    `gorm:"type:varchar(50);not null" json:"name_first"`
	NameLast      string    `gorm:"type:varchar(50);not null" json:"name_last"`
	Handle        string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"handle_str"`
	PasswordHash  string    `gorm:"type:varchar(255);not null" json:"-"`
	PermissionID  int       `gorm:"not null" json:"-"`
	ResetCode     string    `gorm:"type:varchar(64)" json:"-"`
	ProfileImgURL string    `gorm:"type:varchar(255)" json:"profile_img_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsWorkspaceOwner reports whether the user holds the workspace-wide owner
// permission, as opposed to per-channel ownership.
func (u *User) IsWorkspaceOwner() bool {
	return u.PermissionID == constants.PermissionOwner
}
