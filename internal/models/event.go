package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID uint64 `gorm:"not null;index" json:"owner_id"`

	// ObfuscatedID is the only identifier exposed in shareable links. It is
	// generated once at creation and never derived from the primary key.
	ObfuscatedID string `gorm:"type:varchar(64);uniqueIndex;not null" json:"obfuscated_id"`

	// LastModified is maintained by the change observer whenever content or
	// membership rows change. It is never accepted from clients.
	LastModified time.Time `json:"last_modified"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner       User              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Memberships []EventMembership `gorm:"foreignKey:EventID" json:"-"`
	Contents    []EventContent    `gorm:"foreignKey:EventID" json:"-"`
	InviteLinks []EventInviteLink `gorm:"foreignKey:EventID" json:"-"`
}
