package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS members (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendees (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('Member', 'Guest')),
		member_id UUID UNIQUE REFERENCES members(id) ON DELETE RESTRICT,
		wxid TEXT UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK ((type = 'Member') = (member_id IS NOT NULL))
	)`,
	// closes the find-or-create race for guests: ResolveGuest upserts on this index
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendees_guest_name ON attendees (name) WHERE type = 'Guest'`,
	`CREATE TABLE IF NOT EXISTS meetings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		no INTEGER,
		type TEXT NOT NULL DEFAULT 'Regular',
		theme TEXT NOT NULL DEFAULT '',
		manager_id UUID REFERENCES attendees(id) ON DELETE SET NULL,
		date DATE NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		introduction TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
		created_by UUID REFERENCES members(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_status_date ON meetings (status, date)`,
	`CREATE TABLE IF NOT EXISTS segments (
		id UUID PRIMARY KEY,
		meeting_id UUID NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		duration TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		attendee_id UUID REFERENCES attendees(id) ON DELETE SET NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		related_segment_ids TEXT[] NOT NULL DEFAULT '{}',
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_segments_meeting ON segments (meeting_id, sort_order)`,
	`CREATE TABLE IF NOT EXISTS checkins (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		meeting_id UUID NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		wxid TEXT NOT NULL,
		segment_id UUID REFERENCES segments(id) ON DELETE CASCADE,
		name TEXT,
		referral_source TEXT,
		is_member BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_checkins_meeting_wxid_segment
		ON checkins (meeting_id, wxid, COALESCE(segment_id::text, ''))`,
	`CREATE TABLE IF NOT EXISTS feedbacks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		meeting_id UUID NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		segment_id UUID REFERENCES segments(id) ON DELETE SET NULL,
		type TEXT NOT NULL,
		value TEXT NOT NULL,
		from_wxid TEXT NOT NULL,
		to_attendee_id UUID REFERENCES attendees(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_feedbacks_experience
		ON feedbacks (meeting_id, from_wxid, type) WHERE type LIKE 'experience\_%'`,
	`CREATE INDEX IF NOT EXISTS idx_feedbacks_meeting ON feedbacks (meeting_id)`,
	`CREATE TABLE IF NOT EXISTS timings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		meeting_id UUID NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		segment_id UUID NOT NULL REFERENCES segments(id) ON DELETE CASCADE,
		name TEXT,
		planned_duration_minutes INTEGER NOT NULL,
		actual_start_time TIMESTAMPTZ NOT NULL,
		actual_end_time TIMESTAMPTZ NOT NULL,
		actual_duration_seconds INTEGER NOT NULL,
		dot_color TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_timings_meeting ON timings (meeting_id, segment_id)`,
	`CREATE TABLE IF NOT EXISTS awards (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		meeting_id UUID NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		attendee_id UUID NOT NULL REFERENCES attendees(id) ON DELETE CASCADE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_awards_meeting ON awards (meeting_id, sort_order)`,
	`CREATE TABLE IF NOT EXISTS votes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		meeting_id UUID NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		segment TEXT,
		count INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0),
		sort_order INTEGER NOT NULL DEFAULT 0,
		UNIQUE (meeting_id, category, name)
	)`,
	`CREATE TABLE IF NOT EXISTS vote_status (
		meeting_id UUID PRIMARY KEY REFERENCES meetings(id) ON DELETE CASCADE,
		open BOOLEAN NOT NULL DEFAULT FALSE,
		updated_by UUID REFERENCES members(id) ON DELETE SET NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL DEFAULT '',
		is_public BOOLEAN NOT NULL DEFAULT FALSE,
		author_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_public_created ON posts (is_public, created_at DESC)`,
}

// RunMigration applies the schema. Every statement is idempotent.
func RunMigration(ctx context.Context, db *sql.DB) error {
	for i, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i, err)
		}
	}
	return nil
}
