package repository

import (
	"github.com/yukikurage/pickpic-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByAuthSubject finds a user by external auth subject id
func (r *GormUserRepository) FindByAuthSubject(subject string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("auth_subject = ?", subject).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmails finds all users whose email is in the given list
func (r *GormUserRepository) FindByEmails(emails []string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("email IN ?", emails).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user's mutable display fields
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}
