package models

import "time"

// EventInviteLink binds a random token to an event. Multiple links may be live
// for the same event at once; each expires independently.
type EventInviteLink struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	EventID   uint64    `gorm:"not null;index" json:"event_id"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

// Expired reports whether the link is past its expiry at the given instant.
func (l *EventInviteLink) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
