package dto

import "github.com/ayatori/workspace-chat-api/internal/models"

// UserDTO represents a user profile in API responses
type UserDTO struct {
	ID            uint64 `json:"u_id"`
	Email         string `json:"email"`
	NameFirst     string `json:"name_first"`
	NameLast      string `json:"name_last"`
	Handle        string `json:"handle_str"`
	ProfileImgURL string `json:"profile_img_url"`
}

// MemberDTO represents a user inside a channel member list. Names come from
// the membership's cached snapshot, not a live profile lookup.
type MemberDTO struct {
	ID        uint64 `json:"u_id"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		NameFirst:     user.NameFirst,
		NameLast:      user.NameLast,
		Handle:        user.Handle,
		ProfileImgURL: user.ProfileImgURL,
	}
}

// ToUserDTOs converts a slice of users in place
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, user := range users {
		out[i] = ToUserDTO(user)
	}
	return out
}
