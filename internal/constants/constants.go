package constants

import "time"

// Context keys
const (
	ContextKeyUserID     = "user_id"
	ContextKeyEvent      = "event"
	ContextKeyMembership = "event_membership"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Invite links
const (
	// MaxInviteLinkTTL is the longest a shareable invite link may stay valid.
	// Requests above this are rejected, not clamped.
	MaxInviteLinkTTL     = 365 * 24 * time.Hour
	DefaultInviteLinkTTL = 7 * 24 * time.Hour
)

// Uploads
const (
	// MaxUploadBytes bounds raw image bodies read into memory.
	MaxUploadBytes = 32 << 20
)
