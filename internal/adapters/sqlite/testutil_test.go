// Package sqlite_test contains integration tests for SQLite repositories.
//
// Every test database is built from db.GetSchemaSQL(). Do not declare tables
// in test files; use setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/agenda/internal/db"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory database with the authoritative schema.
// A single connection keeps every statement, including those inside a
// transaction, on the same in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedProposal inserts a proposal and returns its ID.
func seedProposal(t *testing.T, db *sql.DB, id, level, status string, score int, deadline *time.Time) string {
	t.Helper()
	if id == "" {
		id = "PROP-001"
	}
	var dl any
	if deadline != nil {
		dl = deadline.UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	ts := testNow.Format("2006-01-02T15:04:05.000000Z")
	_, err := db.Exec(
		`INSERT INTO proposals (id, author_id, title, department, facility_id, score, vote_count, level, status, visibility, voting_deadline, created_at, updated_at)
		 VALUES (?, 'USR-AUTHOR', 'Test Proposal', 'ward-3', 'F1', ?, 0, ?, ?, 'department', ?, ?, ?)`,
		id, score, level, status, dl, ts, ts,
	)
	if err != nil {
		t.Fatalf("failed to seed proposal: %v", err)
	}
	return id
}

// seedUser inserts a user with a doubled permission level.
func seedUser(t *testing.T, db *sql.DB, id, department, facility string, permissionX2 int) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO users (id, name, department, facility_id, permission_x2, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, id, department, facility, permissionX2, testNow.Format("2006-01-02T15:04:05.000000Z"),
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}
