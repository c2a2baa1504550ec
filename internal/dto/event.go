package dto

import (
	"time"

	"github.com/yukikurage/pickpic-api/internal/models"
)

// EventDTO is the canonical event representation. The owner appears either
// by reference (OwnerID, always) or inlined (Owner, when the caller asks for
// expansion); there is exactly one shape with one switch, not two shapes.
type EventDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	OwnerID      uint64    `json:"owner_id"`
	ObfuscatedID string    `json:"obfuscated_id"`
	LastModified time.Time `json:"last_modified"`
	CreatedAt    time.Time `json:"created_at"`
	Owner        *UserDTO  `json:"owner,omitempty"`
}

// ToEventDTO converts an Event model to EventDTO. expandOwner controls whether
// the owner entity is inlined; it requires the Owner relation to be loaded.
func ToEventDTO(event models.Event, expandOwner bool) EventDTO {
	dto := EventDTO{
		ID:           event.ID,
		Name:         event.Name,
		OwnerID:      event.OwnerID,
		ObfuscatedID: event.ObfuscatedID,
		LastModified: event.LastModified,
		CreatedAt:    event.CreatedAt,
	}
	if expandOwner {
		owner := ToUserDTO(event.Owner)
		dto.Owner = &owner
	}
	return dto
}

// ToEventDTOs converts a slice of events
func ToEventDTOs(events []models.Event, expandOwner bool) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i, event := range events {
		dtos[i] = ToEventDTO(event, expandOwner)
	}
	return dtos
}

// UserEventsDTO is the response for listing a user's events
type UserEventsDTO struct {
	OwnedEvents   []EventDTO `json:"owned_events"`
	InvitedEvents []EventDTO `json:"invited_events"`
}

// PendingInvitationDTO is one entry in the pending-invitations list. The owner
// name feeds invitation UI copy.
type PendingInvitationDTO struct {
	EventDTO
	OwnerName string `json:"owner_name"`
}

// ToPendingInvitationDTO converts a pending membership with the event and its
// owner loaded
func ToPendingInvitationDTO(membership models.EventMembership) PendingInvitationDTO {
	return PendingInvitationDTO{
		EventDTO:  ToEventDTO(membership.Event, false),
		OwnerName: membership.Event.Owner.DisplayName,
	}
}
