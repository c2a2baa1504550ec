package repository

import (
	"time"

	"github.com/yukikurage/pickpic-api/internal/models"
	"gorm.io/gorm"
)

// ChangeObserver reacts to row mutations that must update derived state.
// Observers run synchronously inside the same transaction as the triggering
// write, so no call site can forget a derived update and no reader can see
// the write without it.
type ChangeObserver interface {
	// EventContentChanged fires after an event's gallery gains or loses a row.
	EventContentChanged(tx *gorm.DB, eventID uint64) error

	// EventMembershipChanged fires after a membership row is created, updated
	// or deleted.
	EventMembershipChanged(tx *gorm.DB, eventID uint64) error

	// ScoreLedgerChanged fires after a score entry is inserted, updated or
	// deleted for the image.
	ScoreLedgerChanged(tx *gorm.DB, imageID uint64) error
}

// Observers fans notifications out to every registered observer.
type Observers []ChangeObserver

func (o Observers) notifyContent(tx *gorm.DB, eventID uint64) error {
	for _, obs := range o {
		if err := obs.EventContentChanged(tx, eventID); err != nil {
			return err
		}
	}
	return nil
}

func (o Observers) notifyMembership(tx *gorm.DB, eventID uint64) error {
	for _, obs := range o {
		if err := obs.EventMembershipChanged(tx, eventID); err != nil {
			return err
		}
	}
	return nil
}

func (o Observers) notifyLedger(tx *gorm.DB, imageID uint64) error {
	for _, obs := range o {
		if err := obs.ScoreLedgerChanged(tx, imageID); err != nil {
			return err
		}
	}
	return nil
}

// LastModifiedObserver stamps events.last_modified whenever the event's
// content or membership changes.
type LastModifiedObserver struct{}

func NewLastModifiedObserver() *LastModifiedObserver {
	return &LastModifiedObserver{}
}

func (o *LastModifiedObserver) touch(tx *gorm.DB, eventID uint64) error {
	return tx.Model(&models.Event{}).
		Where("id = ?", eventID).
		Update("last_modified", time.Now()).Error
}

func (o *LastModifiedObserver) EventContentChanged(tx *gorm.DB, eventID uint64) error {
	return o.touch(tx, eventID)
}

func (o *LastModifiedObserver) EventMembershipChanged(tx *gorm.DB, eventID uint64) error {
	return o.touch(tx, eventID)
}

func (o *LastModifiedObserver) ScoreLedgerChanged(tx *gorm.DB, imageID uint64) error {
	return nil
}

// ScoreAggregator keeps Image.Score equal to the sum of the image's score
// entries. It always resums in full rather than applying increments, so a
// lost update can never make the cached score drift.
type ScoreAggregator struct{}

func NewScoreAggregator() *ScoreAggregator {
	return &ScoreAggregator{}
}

func (o *ScoreAggregator) EventContentChanged(tx *gorm.DB, eventID uint64) error {
	return nil
}

func (o *ScoreAggregator) EventMembershipChanged(tx *gorm.DB, eventID uint64) error {
	return nil
}

func (o *ScoreAggregator) ScoreLedgerChanged(tx *gorm.DB, imageID uint64) error {
	var sum int64
	err := tx.Model(&models.ScoreEntry{}).
		Where("image_id = ?", imageID).
		Select("COALESCE(SUM(score), 0)").
		Scan(&sum).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Image{}).
		Where("id = ?", imageID).
		Update("score", sum).Error
}

// DefaultObservers returns the observer set every deployment wires in.
func DefaultObservers() Observers {
	return Observers{
		NewLastModifiedObserver(),
		NewScoreAggregator(),
	}
}
