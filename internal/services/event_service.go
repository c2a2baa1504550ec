package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/pickpic-api/internal/blobstore"
	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/repository"
	"github.com/yukikurage/pickpic-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidEventName   = errors.New("event name cannot be empty")
	ErrNotEventOwner      = errors.New("only the event owner can perform this action")
	ErrInvalidContentSort = errors.New("invalid sort format, use 'field asc' or 'field desc'")
)

// EventService provides business logic for event lifecycle and gallery views.
type EventService struct {
	eventRepo repository.EventRepository
	store     blobstore.Store
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository, store blobstore.Store) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		store:     store,
	}
}

// CreateEventInput represents parameters to create a new event.
type CreateEventInput struct {
	Name    string
	OwnerID uint64
}

// CreateEvent creates an event and the owner's accepted membership atomically.
// The owner is a full member from the first instant; the obfuscated id is
// generated here and never changes. Duplicate event names are permitted.
func (s *EventService) CreateEvent(input CreateEventInput) (*models.Event, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidEventName
	}

	event := &models.Event{
		Name:         input.Name,
		OwnerID:      input.OwnerID,
		ObfuscatedID: uuid.NewString(),
		LastModified: time.Now(),
	}

	ownerMembership := &models.EventMembership{
		UserID: input.OwnerID,
		State:  models.MembershipAccepted,
	}

	if err := s.eventRepo.Create(event, ownerMembership); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// GetEvent returns an event by id, optionally with the owner loaded.
func (s *EventService) GetEvent(eventID uint64, expandOwner bool) (*models.Event, error) {
	var preload []string
	if expandOwner {
		preload = append(preload, "Owner")
	}

	event, err := s.eventRepo.FindByID(eventID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return event, nil
}

// RenameEvent updates an event's name. Only the owner may rename.
func (s *EventService) RenameEvent(eventID, actorID uint64, name string) (*models.Event, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidEventName
	}

	event, err := s.GetEvent(eventID, false)
	if err != nil {
		return nil, err
	}

	if event.OwnerID != actorID {
		return nil, ErrNotEventOwner
	}

	event.Name = name
	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

// DeleteEvent removes an event and everything it owns. Only the owner may
// delete. Stored files of images that belonged only to this event are removed
// from the blob store after the transaction commits; those deletes are
// best-effort and only logged on failure.
func (s *EventService) DeleteEvent(ctx context.Context, eventID, requesterID uint64) error {
	event, err := s.GetEvent(eventID, false)
	if err != nil {
		return err
	}

	if event.OwnerID != requesterID {
		return ErrNotEventOwner
	}

	orphanedFiles, err := s.eventRepo.Delete(eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	for _, fileName := range orphanedFiles {
		if err := s.store.Delete(ctx, fileName); err != nil {
			log.Printf("failed to delete blob %s for event %d: %v", fileName, eventID, err)
		}
	}

	return nil
}

// ImageCount counts the images in an event's gallery.
func (s *EventService) ImageCount(eventID uint64) (int64, error) {
	if _, err := s.GetEvent(eventID, false); err != nil {
		return 0, err
	}

	count, err := s.eventRepo.CountContent(eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}

// LastModified returns the event's last-modified timestamp.
func (s *EventService) LastModified(eventID uint64) (time.Time, error) {
	event, err := s.GetEvent(eventID, false)
	if err != nil {
		return time.Time{}, err
	}
	return event.LastModified, nil
}

// ParseContentSort parses the "field asc"/"field desc" query form used by the
// gallery listing.
func ParseContentSort(raw string) (*repository.ContentSort, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return nil, ErrInvalidContentSort
	}

	var desc bool
	switch strings.ToLower(parts[1]) {
	case "asc":
	case "desc":
		desc = true
	default:
		return nil, ErrInvalidContentSort
	}

	return &repository.ContentSort{Field: parts[0], Desc: desc}, nil
}

// ListContent lists an event's gallery.
func (s *EventService) ListContent(eventID uint64, sort *repository.ContentSort, params utils.PaginationParams) ([]models.EventContent, int64, error) {
	if _, err := s.GetEvent(eventID, false); err != nil {
		return nil, 0, err
	}

	contents, total, err := s.eventRepo.ListContent(eventID, sort, params)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortField) {
			return nil, 0, ErrInvalidContentSort
		}
		return nil, 0, fmt.Errorf("failed to list content: %w", err)
	}

	return contents, total, nil
}
