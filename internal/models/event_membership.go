package models

import "time"

type MembershipState string

const (
	MembershipPending  MembershipState = "pending"
	MembershipAccepted MembershipState = "accepted"
)

// EventMembership relates one user to one event. At most one row may exist per
// (event, user) pair; the composite primary key enforces this, including under
// concurrent join races. Valid transitions are pending->accepted,
// pending->removed and accepted->removed. There is no accepted->pending.
type EventMembership struct {
	EventID   uint64          `gorm:"primarykey" json:"event_id"`
	UserID    uint64          `gorm:"primarykey" json:"user_id"`
	State     MembershipState `gorm:"type:varchar(20);not null" json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relations
	Event Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
