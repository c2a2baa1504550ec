package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Membership lookups by user drive the events-for-user views
		{"event_memberships", "idx_memberships_user_id", "user_id"},
		{"event_memberships", "idx_memberships_event_id", "event_id"},
		{"event_memberships", "idx_memberships_user_state", "user_id, state"},

		// Content listing and ranking
		{"event_contents", "idx_event_contents_event_id", "event_id"},
		{"event_contents", "idx_event_contents_image_id", "image_id"},

		// Score resummation per image
		{"score_entries", "idx_score_entries_image_id", "image_id"},

		// Invite link resolution
		{"event_invite_links", "idx_invite_links_event_id", "event_id"},
		{"event_invite_links", "idx_invite_links_expires_at", "expires_at"},

		{"events", "idx_events_owner_id", "owner_id"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
