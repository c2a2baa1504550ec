package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	AuthSubject    string         `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"`
	DisplayName    string         `gorm:"type:varchar(255);not null" json:"display_name"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	ProfilePicture string         `gorm:"type:varchar(255)" json:"profile_picture,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	OwnedEvents []Event           `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships []EventMembership `gorm:"foreignKey:UserID" json:"-"`
	Images      []Image           `gorm:"foreignKey:OwnerID" json:"-"`
}
