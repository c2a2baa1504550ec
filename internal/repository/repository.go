package repository

import (
	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByAuthSubject finds a user by external auth subject id
	FindByAuthSubject(subject string) (*models.User, error)

	// FindByEmails finds all users whose email is in the given list
	FindByEmails(emails []string) ([]models.User, error)

	// Update updates a user's mutable display fields
	Update(user *models.User) error
}

// ContentSort holds the optional ordering for content listings.
type ContentSort struct {
	Field string
	Desc  bool
}

// EventRepository defines the interface for event and gallery data access
type EventRepository interface {
	// Create creates an event and the owner's accepted membership atomically
	Create(event *models.Event, ownerMembership *models.EventMembership) error

	// FindByID finds an event by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Event, error)

	// Update updates an event's mutable fields
	Update(event *models.Event) error

	// Delete deletes an event and cascades to content, memberships, invite
	// links and scores. It returns the blob keys of images that became
	// orphaned so callers can clean up stored files after commit.
	Delete(id uint64) (orphanedFiles []string, err error)

	// CreateContent inserts an (event, image) association
	CreateContent(content *models.EventContent) error

	// FindContent finds a specific association
	FindContent(eventID, imageID uint64) (*models.EventContent, error)

	// DeleteContent removes the association. It reports whether the image no
	// longer belongs to any event afterwards.
	DeleteContent(eventID, imageID uint64) (orphaned bool, err error)

	// ListContent lists an event's gallery with ordering and pagination
	ListContent(eventID uint64, sort *ContentSort, params utils.PaginationParams) ([]models.EventContent, int64, error)

	// CountContent counts the images in an event's gallery
	CountContent(eventID uint64) (int64, error)
}

// MembershipRepository defines the interface for event membership data access
type MembershipRepository interface {
	// Create creates a membership row
	Create(membership *models.EventMembership) error

	// Find finds the membership for an (event, user) pair
	Find(eventID, userID uint64) (*models.EventMembership, error)

	// Save persists a state change on an existing membership
	Save(membership *models.EventMembership) error

	// Delete removes the membership row regardless of state
	Delete(eventID, userID uint64) error

	// UpsertAccepted creates an accepted membership, or promotes an existing
	// pending one. Safe under concurrent joins for the same pair.
	UpsertAccepted(eventID, userID uint64) error

	// ListPendingByUser lists pending memberships with event and owner loaded
	ListPendingByUser(userID uint64) ([]models.EventMembership, error)

	// ListAcceptedByUser lists accepted memberships with event loaded
	ListAcceptedByUser(userID uint64) ([]models.EventMembership, error)

	// ListByEvent lists an event's memberships with user loaded
	ListByEvent(eventID uint64) ([]models.EventMembership, error)
}

// InviteLinkRepository defines the interface for shareable invite links
type InviteLinkRepository interface {
	// Create stores a new invite link
	Create(link *models.EventInviteLink) error

	// FindByToken looks a link up by its token with the event loaded
	FindByToken(token string) (*models.EventInviteLink, error)
}

// ImageRepository defines the interface for image records
type ImageRepository interface {
	// Create creates an image record
	Create(image *models.Image) error

	// FindByID finds an image by ID
	FindByID(id uint64) (*models.Image, error)

	// Delete removes the image record and its score entries
	Delete(id uint64) error
}

// ScoreRepository defines the interface for the score ledger
type ScoreRepository interface {
	// ApplyVote applies one signed vote for (user, image) under a row lock,
	// clamps the stored contribution to [-1, 1], and recomputes the image's
	// aggregate score in the same transaction.
	ApplyVote(userID, imageID uint64, delta int) error

	// Find returns the stored entry for an (user, image) pair
	Find(userID, imageID uint64) (*models.ScoreEntry, error)

	// SumForImage recomputes the exact score sum for an image
	SumForImage(imageID uint64) (int, error)

	// UnrankedForUser lists an event's content the user has not scored yet
	UnrankedForUser(eventID, userID uint64) ([]models.EventContent, error)

	// HighestScored returns the event's content row with the maximum image
	// score; ties go to the earliest inserted content row.
	HighestScored(eventID uint64) (*models.EventContent, error)
}
