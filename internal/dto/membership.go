package dto

import (
	"time"

	"github.com/yukikurage/pickpic-api/internal/models"
)

// MemberDTO represents one user's membership in an event
type MemberDTO struct {
	User     UserDTO                `json:"user"`
	State    models.MembershipState `json:"state"`
	JoinedAt time.Time              `json:"joined_at"`
}

// ToMemberDTO converts a membership with the user loaded
func ToMemberDTO(membership models.EventMembership) MemberDTO {
	return MemberDTO{
		User:     ToUserDTO(membership.User),
		State:    membership.State,
		JoinedAt: membership.CreatedAt,
	}
}

// ToMemberDTOs converts a slice of memberships
func ToMemberDTOs(memberships []models.EventMembership) []MemberDTO {
	dtos := make([]MemberDTO, len(memberships))
	for i, m := range memberships {
		dtos[i] = ToMemberDTO(m)
	}
	return dtos
}
