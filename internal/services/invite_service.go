package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/pickpic-api/internal/constants"
	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/repository"
	"github.com/yukikurage/pickpic-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInviteLinkNotFound   = errors.New("invite link not found")
	ErrInviteLinkExpired    = errors.New("invite link has expired")
	ErrInviteTTLTooLong     = errors.New("invite link TTL cannot exceed 365 days")
	ErrInviteTTLNotPositive = errors.New("invite link TTL must be positive")
	ErrTokenGeneration      = errors.New("failed to generate invite token")
)

// InviteService generates and resolves shareable invite links.
type InviteService struct {
	inviteRepo     repository.InviteLinkRepository
	membershipRepo repository.MembershipRepository
	eventRepo      repository.EventRepository
	baseURL        string
}

// NewInviteService creates a new InviteService.
func NewInviteService(inviteRepo repository.InviteLinkRepository, membershipRepo repository.MembershipRepository, eventRepo repository.EventRepository, baseURL string) *InviteService {
	return &InviteService{
		inviteRepo:     inviteRepo,
		membershipRepo: membershipRepo,
		eventRepo:      eventRepo,
		baseURL:        baseURL,
	}
}

// InviteLink is the shareable result of GenerateInviteLink.
type InviteLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GenerateInviteLink creates a new link for the event. The TTL is validated at
// write time: requests beyond 365 days fail, they are not clamped. Several
// links may be live for one event at once, each with its own expiry.
func (s *InviteService) GenerateInviteLink(eventID uint64, ttl time.Duration) (*InviteLink, error) {
	if ttl <= 0 {
		return nil, ErrInviteTTLNotPositive
	}
	if ttl > constants.MaxInviteLinkTTL {
		return nil, ErrInviteTTLTooLong
	}

	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, ErrTokenGeneration
	}

	link := &models.EventInviteLink{
		EventID:   eventID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.inviteRepo.Create(link); err != nil {
		return nil, fmt.Errorf("failed to store invite link: %w", err)
	}

	return &InviteLink{
		Token:     token,
		URL:       fmt.Sprintf("%s/%s", strings.TrimRight(s.baseURL, "/"), token),
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// ResolveInviteLink returns the event behind a live token. Unknown tokens are
// NotFound; expired ones are Expired and never silently revived.
func (s *InviteService) ResolveInviteLink(token string) (*models.Event, error) {
	link, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteLinkNotFound
		}
		return nil, fmt.Errorf("failed to resolve invite link: %w", err)
	}

	if link.Expired(time.Now()) {
		return nil, ErrInviteLinkExpired
	}

	return &link.Event, nil
}

// JoinViaLink resolves the token and upserts an accepted membership: a pending
// invitation is promoted, a missing one is created already accepted. Joining
// twice is a no-op success.
func (s *InviteService) JoinViaLink(token string, userID uint64) (*models.Event, error) {
	event, err := s.ResolveInviteLink(token)
	if err != nil {
		return nil, err
	}

	if err := s.membershipRepo.UpsertAccepted(event.ID, userID); err != nil {
		return nil, fmt.Errorf("failed to join event: %w", err)
	}

	return event, nil
}
