package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/pickpic-api/internal/database"
	"github.com/yukikurage/pickpic-api/internal/models"
	"github.com/yukikurage/pickpic-api/internal/utils"
	"gorm.io/gorm"
)

// ErrInvalidSortField is returned when a content listing asks for an
// unsupported sort column.
var ErrInvalidSortField = errors.New("invalid sort field")

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db        *gorm.DB
	observers Observers
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB, observers Observers) EventRepository {
	return &GormEventRepository{db: db, observers: observers}
}

// Create creates an event and the owner's accepted membership atomically
func (r *GormEventRepository) Create(event *models.Event, ownerMembership *models.EventMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		ownerMembership.EventID = event.ID

		if err := tx.Create(ownerMembership).Error; err != nil {
			return err
		}

		return r.observers.notifyMembership(tx, event.ID)
	})
}

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(id uint64, preload ...string) (*models.Event, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var event models.Event
	if err := query.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Update updates an event's mutable fields
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// Delete deletes an event and all related data in a transaction. Images that
// belonged only to this event are removed together with their score entries;
// their blob keys are returned for post-commit file cleanup.
func (r *GormEventRepository) Delete(id uint64) ([]string, error) {
	var orphanedFiles []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Images referenced by this event's gallery
		var imageIDs []uint64
		if err := tx.Model(&models.EventContent{}).
			Where("event_id = ?", id).
			Pluck("image_id", &imageIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("event_id = ?", id).Delete(&models.EventContent{}).Error; err != nil {
			return err
		}

		// Of those, images no longer referenced by any other event
		if len(imageIDs) > 0 {
			var orphaned []models.Image
			err := tx.Where("id IN ?", imageIDs).
				Where("NOT EXISTS (SELECT 1 FROM event_contents WHERE event_contents.image_id = images.id)").
				Find(&orphaned).Error
			if err != nil {
				return err
			}

			if len(orphaned) > 0 {
				orphanedIDs := make([]uint64, len(orphaned))
				for i, img := range orphaned {
					orphanedIDs[i] = img.ID
					orphanedFiles = append(orphanedFiles, img.FileName)
				}

				if err := tx.Where("image_id IN ?", orphanedIDs).Delete(&models.ScoreEntry{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", orphanedIDs).Delete(&models.Image{}).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Where("event_id = ?", id).Delete(&models.EventMembership{}).Error; err != nil {
			return err
		}

		if err := tx.Where("event_id = ?", id).Delete(&models.EventInviteLink{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Event{}, id).Error
	})
	if err != nil {
		return nil, err
	}

	return orphanedFiles, nil
}

// CreateContent inserts an (event, image) association
func (r *GormEventRepository) CreateContent(content *models.EventContent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(content).Error; err != nil {
			return err
		}

		return r.observers.notifyContent(tx, content.EventID)
	})
}

// FindContent finds a specific association
func (r *GormEventRepository) FindContent(eventID, imageID uint64) (*models.EventContent, error) {
	var content models.EventContent
	if err := r.db.Where("event_id = ? AND image_id = ?", eventID, imageID).
		First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// DeleteContent removes the association and reports whether the image became
// orphaned
func (r *GormEventRepository) DeleteContent(eventID, imageID uint64) (bool, error) {
	var orphaned bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ? AND image_id = ?", eventID, imageID).
			Delete(&models.EventContent{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var remaining int64
		if err := tx.Model(&models.EventContent{}).
			Where("image_id = ?", imageID).
			Count(&remaining).Error; err != nil {
			return err
		}
		orphaned = remaining == 0

		return r.observers.notifyContent(tx, eventID)
	})
	if err != nil {
		return false, err
	}

	return orphaned, nil
}

// contentSortColumns whitelists the fields content listings may order by.
var contentSortColumns = map[string]string{
	"created_at": "event_contents.created_at",
	"score":      "images.score",
	"file_name":  "images.file_name",
}

// ListContent lists an event's gallery with ordering and pagination
func (r *GormEventRepository) ListContent(eventID uint64, sort *ContentSort, params utils.PaginationParams) ([]models.EventContent, int64, error) {
	query := r.db.Model(&models.EventContent{}).
		Joins("JOIN images ON images.id = event_contents.image_id").
		Where("event_contents.event_id = ?", eventID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "event_contents.id ASC"
	if sort != nil {
		column, ok := contentSortColumns[sort.Field]
		if !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrInvalidSortField, sort.Field)
		}
		direction := "ASC"
		if sort.Desc {
			direction = "DESC"
		}
		order = fmt.Sprintf("%s %s, event_contents.id ASC", column, direction)
	}

	var contents []models.EventContent
	err := query.Order(order).
		Scopes(database.Paginate(params)).
		Preload("Image").Preload("Image.Owner").
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}

	return contents, total, nil
}

// CountContent counts the images in an event's gallery
func (r *GormEventRepository) CountContent(eventID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.EventContent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}
