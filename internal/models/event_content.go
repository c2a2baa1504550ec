package models

import "time"

// EventContent associates an image with an event's gallery. The autoincrement
// ID doubles as insertion order, which breaks score ties deterministically.
type EventContent struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	EventID   uint64    `gorm:"not null;uniqueIndex:idx_event_image" json:"event_id"`
	ImageID   uint64    `gorm:"not null;uniqueIndex:idx_event_image" json:"image_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Image Image `gorm:"foreignKey:ImageID" json:"image,omitempty"`
}
