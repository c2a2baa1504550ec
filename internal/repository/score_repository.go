package repository

import (
	"github.com/yukikurage/pickpic-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormScoreRepository is a GORM implementation of ScoreRepository
type GormScoreRepository struct {
	db        *gorm.DB
	observers Observers
}

// NewScoreRepository creates a new ScoreRepository
func NewScoreRepository(db *gorm.DB, observers Observers) ScoreRepository {
	return &GormScoreRepository{db: db, observers: observers}
}

// ApplyVote applies one signed vote. The entry row is read under FOR UPDATE so
// concurrent votes on the same (user, image) pair serialize; the aggregate is
// recomputed by the observer inside the same transaction, so concurrent votes
// from different users cannot lose updates either.
func (r *GormScoreRepository) ApplyVote(userID, imageID uint64, delta int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Ensure the row exists before locking it; DO NOTHING makes the
		// insert race-safe when two first votes for the same pair collide.
		seed := models.ScoreEntry{
			UserID:  userID,
			ImageID: imageID,
			Score:   0,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		// sqlite rejects FOR UPDATE and serializes writers on its own.
		query := tx.Where("user_id = ? AND image_id = ?", userID, imageID)
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var entry models.ScoreEntry
		if err := query.First(&entry).Error; err != nil {
			return err
		}

		// A user's contribution never leaves [-1, 1]; votes past the bound
		// are no-ops, not errors.
		next := entry.Score + delta
		if next > 1 || next < -1 {
			return nil
		}

		entry.Score = next
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}

		return r.observers.notifyLedger(tx, imageID)
	})
}

// Find returns the stored entry for an (user, image) pair
func (r *GormScoreRepository) Find(userID, imageID uint64) (*models.ScoreEntry, error) {
	var entry models.ScoreEntry
	if err := r.db.Where("user_id = ? AND image_id = ?", userID, imageID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// SumForImage recomputes the exact score sum for an image
func (r *GormScoreRepository) SumForImage(imageID uint64) (int, error) {
	var sum int64
	err := r.db.Model(&models.ScoreEntry{}).
		Where("image_id = ?", imageID).
		Select("COALESCE(SUM(score), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return int(sum), nil
}

// UnrankedForUser lists an event's content the user has not scored yet
func (r *GormScoreRepository) UnrankedForUser(eventID, userID uint64) ([]models.EventContent, error) {
	var contents []models.EventContent
	err := r.db.Where("event_id = ?", eventID).
		Where("image_id NOT IN (?)",
			r.db.Model(&models.ScoreEntry{}).
				Select("image_id").
				Where("user_id = ?", userID),
		).
		Order("id ASC").
		Preload("Image").
		Find(&contents).Error
	if err != nil {
		return nil, err
	}
	return contents, nil
}

// HighestScored returns the event's content row with the maximum image score.
// The ascending content id breaks ties in insertion order, first added wins.
func (r *GormScoreRepository) HighestScored(eventID uint64) (*models.EventContent, error) {
	var content models.EventContent
	err := r.db.
		Joins("JOIN images ON images.id = event_contents.image_id").
		Where("event_contents.event_id = ?", eventID).
		Order("images.score DESC, event_contents.id ASC").
		Preload("Image").
		First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}
