package dto

import "github.com/ayatori/workspace-chat-api/internal/models"

// ChannelDTO represents a channel in list responses
type ChannelDTO struct {
	ID   uint64 `json:"channel_id"`
	Name string `json:"name"`
}

// ChannelDetailsDTO represents a channel with its member lists
type ChannelDetailsDTO struct {
	Name         string      `json:"name"`
	IsPublic     bool        `json:"is_public"`
	OwnerMembers []MemberDTO `json:"owner_members"`
	AllMembers   []MemberDTO `json:"all_members"`
}

// ToChannelDTO converts a Channel model to ChannelDTO
func ToChannelDTO(channel models.Channel) ChannelDTO {
	return ChannelDTO{
		ID:   channel.ID,
		Name: channel.Name,
	}
}

// ToChannelDTOs converts a slice of channels in place
func ToChannelDTOs(channels []models.Channel) []ChannelDTO {
	out := make([]ChannelDTO, len(channels))
	for i, channel := range channels {
		out[i] = ToChannelDTO(channel)
	}
	return out
}

// ToChannelDetailsDTO converts a Channel model to ChannelDetailsDTO.
// Owners appear in both lists; member order is join order.
func ToChannelDetailsDTO(channel models.Channel) ChannelDetailsDTO {
	details := ChannelDetailsDTO{
		Name:         channel.Name,
		IsPublic:     channel.IsPublic,
		OwnerMembers: []MemberDTO{},
		AllMembers:   []MemberDTO{},
	}
	for _, member := range channel.Members {
		entry := MemberDTO{
			ID:        member.UserID,
			NameFirst: member.NameFirst,
			NameLast:  member.NameLast,
		}
		details.AllMembers = append(details.AllMembers, entry)
		if member.IsOwner {
			details.OwnerMembers = append(details.OwnerMembers, entry)
		}
	}
	return details
}
