package repository

import (
	"github.com/yukikurage/pickpic-api/internal/models"
	"gorm.io/gorm"
)

// GormImageRepository is a GORM implementation of ImageRepository
type GormImageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new ImageRepository
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &GormImageRepository{db: db}
}

// Create creates an image record
func (r *GormImageRepository) Create(image *models.Image) error {
	return r.db.Create(image).Error
}

// FindByID finds an image by ID
func (r *GormImageRepository) FindByID(id uint64) (*models.Image, error) {
	var image models.Image
	if err := r.db.First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// Delete removes the image record and its score entries
func (r *GormImageRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("image_id = ?", id).Delete(&models.ScoreEntry{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Image{}, id).Error
	})
}
