package models

import "time"

// ScoreEntry is one user's standing contribution to one image's score, bounded
// to [-1, +1]. The set of entries for an image is the source of truth for
// Image.Score.
type ScoreEntry struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	ImageID   uint64    `gorm:"primarykey" json:"image_id"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Image Image `gorm:"foreignKey:ImageID" json:"image,omitempty"`
}
