package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are portable between
// SQLite and PostgreSQL: timestamps are RFC3339 TEXT and booleans INTEGER.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements re-run on every start.
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") ||
		(strings.Contains(msg, "column") && strings.Contains(msg, "already exists"))
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS learners (
		id                  TEXT PRIMARY KEY,
		name                TEXT NOT NULL DEFAULT '',
		program_start       TEXT,
		profile_complete    INTEGER NOT NULL DEFAULT 0,
		assessment_complete INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS action_progress (
		learner_id        TEXT NOT NULL,
		item_id           TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'pending'
		                  CHECK(status IN ('pending','completed','skipped','archived')),
		category          TEXT NOT NULL DEFAULT 'content'
		                  CHECK(category IN ('content','community','coaching')),
		label             TEXT NOT NULL DEFAULT '',
		week_number       INTEGER,
		original_week     INTEGER,
		current_week      INTEGER,
		completed_in_week INTEGER,
		carried_over      INTEGER NOT NULL DEFAULT 0,
		carried_from_week INTEGER,
		carry_count       INTEGER NOT NULL DEFAULT 0 CHECK(carry_count >= 0),
		completed_at      TEXT,
		skipped_at        TEXT,
		archived_at       TEXT,
		skipped_reason    TEXT NOT NULL DEFAULT '',
		archived_reason   TEXT NOT NULL DEFAULT '',
		updated_at        TEXT NOT NULL,
		PRIMARY KEY (learner_id, item_id)
	)`,

	`CREATE TABLE IF NOT EXISTS prep_visits (
		learner_id TEXT NOT NULL REFERENCES learners(id) ON DELETE CASCADE,
		visit_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (learner_id, visit_date)
	)`,

	`CREATE TABLE IF NOT EXISTS rollover_runs (
		learner_id TEXT NOT NULL,
		from_week  INTEGER NOT NULL,
		to_week    INTEGER NOT NULL,
		carried    INTEGER NOT NULL DEFAULT 0,
		archived   INTEGER NOT NULL DEFAULT 0,
		failed     INTEGER NOT NULL DEFAULT 0,
		ran_at     TEXT NOT NULL,
		PRIMARY KEY (learner_id, from_week, to_week)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_action_progress_status ON action_progress(learner_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_action_progress_week ON action_progress(learner_id, original_week)`,
	`CREATE INDEX IF NOT EXISTS idx_learners_start ON learners(program_start)`,
}
