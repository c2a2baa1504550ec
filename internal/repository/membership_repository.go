package repository

import (
	"time"

	"github.com/yukikurage/pickpic-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db        *gorm.DB
	observers Observers
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB, observers Observers) MembershipRepository {
	return &GormMembershipRepository{db: db, observers: observers}
}

// Create creates a membership row
func (r *GormMembershipRepository) Create(membership *models.EventMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(membership).Error; err != nil {
			return err
		}

		return r.observers.notifyMembership(tx, membership.EventID)
	})
}

// Find finds the membership for an (event, user) pair
func (r *GormMembershipRepository) Find(eventID, userID uint64) (*models.EventMembership, error) {
	var membership models.EventMembership
	if err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// Save persists a state change on an existing membership
func (r *GormMembershipRepository) Save(membership *models.EventMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(membership).Error; err != nil {
			return err
		}

		return r.observers.notifyMembership(tx, membership.EventID)
	})
}

// Delete removes the membership row regardless of state
func (r *GormMembershipRepository) Delete(eventID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&models.EventMembership{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return r.observers.notifyMembership(tx, eventID)
	})
}

// UpsertAccepted creates an accepted membership, or promotes an existing
// pending one. The ON CONFLICT clause on the composite key makes two
// concurrent joins for the same pair converge on a single accepted row.
func (r *GormMembershipRepository) UpsertAccepted(eventID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		membership := models.EventMembership{
			EventID: eventID,
			UserID:  userID,
			State:   models.MembershipAccepted,
		}

		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"state":      models.MembershipAccepted,
				"updated_at": time.Now(),
			}),
		}).Create(&membership).Error
		if err != nil {
			return err
		}

		return r.observers.notifyMembership(tx, eventID)
	})
}

// ListPendingByUser lists pending memberships with event and owner loaded
func (r *GormMembershipRepository) ListPendingByUser(userID uint64) ([]models.EventMembership, error) {
	var memberships []models.EventMembership
	err := r.db.Preload("Event").Preload("Event.Owner").
		Where("user_id = ? AND state = ?", userID, models.MembershipPending).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListAcceptedByUser lists accepted memberships with event loaded
func (r *GormMembershipRepository) ListAcceptedByUser(userID uint64) ([]models.EventMembership, error) {
	var memberships []models.EventMembership
	err := r.db.Preload("Event").Preload("Event.Owner").
		Where("user_id = ? AND state = ?", userID, models.MembershipAccepted).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListByEvent lists an event's memberships with user loaded
func (r *GormMembershipRepository) ListByEvent(eventID uint64) ([]models.EventMembership, error) {
	var memberships []models.EventMembership
	err := r.db.Preload("User").
		Where("event_id = ?", eventID).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
