package repository

import (
	"github.com/yukikurage/pickpic-api/internal/models"
	"gorm.io/gorm"
)

// GormInviteLinkRepository is a GORM implementation of InviteLinkRepository
type GormInviteLinkRepository struct {
	db *gorm.DB
}

// NewInviteLinkRepository creates a new InviteLinkRepository
func NewInviteLinkRepository(db *gorm.DB) InviteLinkRepository {
	return &GormInviteLinkRepository{db: db}
}

// Create stores a new invite link
func (r *GormInviteLinkRepository) Create(link *models.EventInviteLink) error {
	return r.db.Create(link).Error
}

// FindByToken looks a link up by its token. The token is only ever looked up,
// never recomputed, so nothing about the event's primary id leaks through it.
func (r *GormInviteLinkRepository) FindByToken(token string) (*models.EventInviteLink, error) {
	var link models.EventInviteLink
	if err := r.db.Preload("Event").Where("token = ?", token).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}
