package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMembershipNotFound = errors.New("no membership exists for this event and user")
	ErrCannotRemoveOwner  = errors.New("the owner's membership can only be removed by deleting the event")
	ErrRemoveNotPermitted = errors.New("only the owner or the member themself can remove a membership")
	ErrNoInviteeIDs       = errors.New("at least one invitee id is required")
)

// MembershipService drives the pending/accepted membership state machine.
type MembershipService struct {
	membershipRepo repository.MembershipRepository
	eventRepo      repository.EventRepository
	userRepo       repository.UserRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(membershipRepo repository.MembershipRepository, eventRepo repository.EventRepository, userRepo repository.UserRepository) *MembershipService {
	return &MembershipService{
		membershipRepo: membershipRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
	}
}

// InviteResult reports how a batch invite landed.
type InviteResult struct {
	Invited int `json:"invited"`
	Skipped int `json:"skipped"`
}

// InviteDirect creates a pending membership for each invitee that has none
// yet. Existing memberships and self-invites are skipped, never errors: one
// bad id among many must not fail the batch.
func (s *MembershipService) InviteDirect(eventID, inviterID uint64, inviteeIDs []uint64) (*InviteResult, error) {
	if len(inviteeIDs) == 0 {
		return nil, ErrNoInviteeIDs
	}

	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	result := &InviteResult{}
	for _, inviteeID := range inviteeIDs {
		if inviteeID == inviterID {
			result.Skipped++
			continue
		}

		if _, err := s.userRepo.FindByID(inviteeID); err != nil {
			result.Skipped++
			continue
		}

		if _, err := s.membershipRepo.Find(eventID, inviteeID); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}

		membership := &models.EventMembership{
			EventID: eventID,
			UserID:  inviteeID,
			State:   models.MembershipPending,
		}
		if err := s.membershipRepo.Create(membership); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent invite for the same pair got there first.
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("failed to create membership: %w", err)
		}

		result.Invited++
	}

	return result, nil
}

// AcceptInvitation transitions a pending membership to accepted.
func (s *MembershipService) AcceptInvitation(eventID, userID uint64) error {
	membership, err := s.membershipRepo.Find(eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if membership.State == models.MembershipAccepted {
		// Accepting twice is a no-op success.
		return nil
	}

	membership.State = models.MembershipAccepted
	if err := s.membershipRepo.Save(membership); err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}

	return nil
}

// DeclineInvitation removes the membership row. The owner's accepted row is
// off limits here just as in RemoveMember; it only goes with the event.
func (s *MembershipService) DeclineInvitation(eventID, userID uint64) error {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to find event: %w", err)
	}

	if userID == event.OwnerID {
		return ErrCannotRemoveOwner
	}

	err = s.membershipRepo.Delete(eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to decline invitation: %w", err)
	}

	return nil
}

// RemoveMember removes a membership regardless of state. The actor must be the
// event owner or the member themself, and the owner's own membership can never
// be removed directly; that path goes through event deletion.
func (s *MembershipService) RemoveMember(eventID, actorID, targetID uint64) error {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to find event: %w", err)
	}

	if targetID == event.OwnerID {
		return ErrCannotRemoveOwner
	}

	if actorID != event.OwnerID && actorID != targetID {
		return ErrRemoveNotPermitted
	}

	err = s.membershipRepo.Delete(eventID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// ListPendingForUser lists events the user is invited to but has not answered,
// with the owner loaded for invitation copy.
func (s *MembershipService) ListPendingForUser(userID uint64) ([]models.EventMembership, error) {
	memberships, err := s.membershipRepo.ListPendingByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invitations: %w", err)
	}
	return memberships, nil
}

// UserEvents holds the two disjoint sets returned by ListEventsForUser.
type UserEvents struct {
	Owned   []models.Event
	Invited []models.Event
}

// ListEventsForUser returns the events the user owns and the events where the
// user holds an accepted membership. Pending invitations appear in neither.
func (s *MembershipService) ListEventsForUser(userID uint64) (*UserEvents, error) {
	memberships, err := s.membershipRepo.ListAcceptedByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	events := &UserEvents{
		Owned:   []models.Event{},
		Invited: []models.Event{},
	}
	for _, m := range memberships {
		if m.Event.OwnerID == userID {
			events.Owned = append(events.Owned, m.Event)
		} else {
			events.Invited = append(events.Invited, m.Event)
		}
	}

	return events, nil
}

// ListMembers lists an event's members, pending and accepted.
func (s *MembershipService) ListMembers(eventID uint64) ([]models.EventMembership, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	members, err := s.membershipRepo.ListByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
