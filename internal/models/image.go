package models

import "time"

type Image struct {
	ID       uint64 `gorm:"primarykey" json:"id"`
	FileName string `gorm:"type:varchar(255);not null" json:"file_name"`
	OwnerID  uint64 `gorm:"not null;index" json:"owner_id"`

	// Score caches the sum of this image's score entries. It is recomputed in
	// full after every ledger mutation, inside the same transaction.
	Score int `gorm:"not null;default:0" json:"score"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Owner   User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Entries []ScoreEntry `gorm:"foreignKey:ImageID" json:"-"`
}
