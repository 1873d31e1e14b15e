package db

// SchemaSQL is the complete schema for a fresh database.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository
// tests load it through GetSchemaSQL() instead of declaring their own tables,
// so a column referenced by an adapter but missing here fails immediately
// with "no such column".
//
// Timestamps are stored as fixed-width UTC text (see sqlite.timeLayout) so
// that string comparison orders them correctly.
const SchemaSQL = `
-- Users backing permission lookups and audience resolution
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	facility_id TEXT NOT NULL DEFAULT '',
	permission_x2 INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_scope ON users(facility_id, department, permission_x2);

-- Proposals and their position in the approval hierarchy
CREATE TABLE IF NOT EXISTS proposals (
	id TEXT PRIMARY KEY,
	author_id TEXT NOT NULL,
	title TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	facility_id TEXT NOT NULL DEFAULT '',
	score INTEGER NOT NULL DEFAULT 0 CHECK (score >= 0),
	prev_score INTEGER NOT NULL DEFAULT 0,
	vote_count INTEGER NOT NULL DEFAULT 0,
	level TEXT NOT NULL DEFAULT 'PENDING'
		CHECK (level IN ('PENDING', 'DEPT_REVIEW', 'DEPT_AGENDA', 'FACILITY_AGENDA', 'CORP_REVIEW', 'CORP_AGENDA')),
	status TEXT NOT NULL,
	visibility TEXT NOT NULL DEFAULT 'department' CHECK (visibility IN ('department', 'facility')),
	voting_deadline TEXT,
	decision_by TEXT,
	decision_at TEXT,
	decision_reason TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_proposals_level ON proposals(level);
CREATE INDEX IF NOT EXISTS idx_proposals_deadline ON proposals(voting_deadline);

-- Department review audit trail (append-only)
CREATE TABLE IF NOT EXISTS proposal_reviews (
	id TEXT PRIMARY KEY,
	proposal_id TEXT NOT NULL,
	reviewer_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('approve_as_dept_agenda', 'escalate_to_facility', 'reject')),
	reason TEXT NOT NULL,
	comment TEXT,
	score_snapshot INTEGER NOT NULL,
	vote_count_snapshot INTEGER NOT NULL,
	from_level TEXT NOT NULL,
	to_level TEXT NOT NULL,
	created_at TEXT NOT NULL,
	FOREIGN KEY (proposal_id) REFERENCES proposals(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_proposal_reviews_proposal ON proposal_reviews(proposal_id);

-- Expired escalation resolutions (immutable, one per expired deadline)
CREATE TABLE IF NOT EXISTS expired_escalation_decisions (
	id TEXT PRIMARY KEY,
	proposal_id TEXT NOT NULL,
	decider_id TEXT NOT NULL,
	decision TEXT NOT NULL CHECK (decision IN ('approve_at_current_level', 'downgrade', 'reject')),
	current_score INTEGER NOT NULL,
	target_score INTEGER NOT NULL,
	achievement_rate REAL NOT NULL,
	days_overdue INTEGER NOT NULL CHECK (days_overdue >= 0),
	reason TEXT NOT NULL,
	from_level TEXT NOT NULL,
	to_level TEXT NOT NULL,
	voting_deadline TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE (proposal_id, voting_deadline),
	FOREIGN KEY (proposal_id) REFERENCES proposals(id) ON DELETE CASCADE
);

-- Companion proposal documents (at most one per proposal)
CREATE TABLE IF NOT EXISTS proposal_documents (
	id TEXT PRIMARY KEY,
	proposal_id TEXT NOT NULL UNIQUE,
	owner_id TEXT NOT NULL,
	title TEXT NOT NULL,
	objectives TEXT NOT NULL DEFAULT '',
	effects TEXT NOT NULL DEFAULT '',
	plan TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'submitted')),
	created_at TEXT NOT NULL,
	FOREIGN KEY (proposal_id) REFERENCES proposals(id) ON DELETE CASCADE
);

-- Notification outbox
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	proposal_id TEXT NOT NULL,
	template TEXT NOT NULL,
	occurrence TEXT NOT NULL DEFAULT '',
	recipient_id TEXT NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('informational', 'pre_alert', 'action_required')),
	payload TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL,
	UNIQUE (proposal_id, template, occurrence, recipient_id)
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
