package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/ports/secondary"
)

const proposalColumns = `id, author_id, title, department, facility_id, score, vote_count, level, status, visibility, voting_deadline, decision_by, decision_at, decision_reason, created_at, updated_at`

// terminalStatuses are the statuses a tier change may never leave.
var terminalStatuses = []any{level.StatusArchived, level.StatusApprovedDeptAgenda, level.StatusApprovedAtLevel}

const terminalClause = "status NOT IN (?, ?, ?)"

// ProposalRepository implements secondary.ProposalRepository with SQLite.
type ProposalRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewProposalRepository creates a new SQLite proposal repository.
func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner, extra ...any) (*secondary.ProposalRecord, error) {
	var (
		deadline, decisionAt sql.NullString
		decisionBy, reason   sql.NullString
		createdAt, updatedAt string
	)
	record := &secondary.ProposalRecord{}
	dest := append(extra,
		&record.ID, &record.AuthorID, &record.Title, &record.Department, &record.FacilityID,
		&record.Score, &record.VoteCount, &record.Level, &record.Status, &record.Visibility,
		&deadline, &decisionBy, &decisionAt, &reason, &createdAt, &updatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if record.VotingDeadline, err = parseNullTime(deadline); err != nil {
		return nil, err
	}
	if record.DecisionAt, err = parseNullTime(decisionAt); err != nil {
		return nil, err
	}
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if record.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	record.DecisionBy = decisionBy.String
	record.DecisionReason = reason.String
	return record, nil
}

// Create persists a new proposal.
func (r *ProposalRepository) Create(ctx context.Context, p *secondary.ProposalRecord) error {
	now := r.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO proposals (`+proposalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AuthorID, p.Title, p.Department, p.FacilityID,
		p.Score, p.VoteCount, p.Level, p.Status, p.Visibility,
		nullTime(p.VotingDeadline), nullString(p.DecisionBy), nullTime(p.DecisionAt), nullString(p.DecisionReason),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return apperr.New(apperr.CodeConflict, "proposal %s already exists", p.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to create proposal: %w", err)
	}
	return nil
}

// GetByID retrieves a proposal by its ID.
func (r *ProposalRepository) GetByID(ctx context.Context, id string) (*secondary.ProposalRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE id = ?`, id)
	record, err := scanProposal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("proposal", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return record, nil
}

// List retrieves proposals matching the given filters.
func (r *ProposalRepository) List(ctx context.Context, filters secondary.ProposalFilters) ([]*secondary.ProposalRecord, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE 1=1`
	args := []any{}

	if filters.Level != "" {
		query += " AND level = ?"
		args = append(args, filters.Level)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Department != "" {
		query += " AND department = ?"
		args = append(args, filters.Department)
	}
	if filters.FacilityID != "" {
		query += " AND facility_id = ?"
		args = append(args, filters.FacilityID)
	}
	if filters.MinScore > 0 {
		query += " AND score >= ?"
		args = append(args, filters.MinScore)
	}
	if filters.OpenOnly {
		query += " AND " + terminalClause
		args = append(args, terminalStatuses...)
	}

	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	return r.query(ctx, query, args...)
}

func (r *ProposalRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.ProposalRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*secondary.ProposalRecord
	for rows.Next() {
		record, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, record)
	}
	return proposals, rows.Err()
}

// ApplyScoreDelta adds delta to the score in a single statement. SET
// expressions read the pre-update row, so prev_score captures the old score
// of this very update.
func (r *ProposalRepository) ApplyScoreDelta(ctx context.Context, id string, delta int) (*secondary.ScoreChange, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		`UPDATE proposals
		 SET prev_score = score, score = MAX(0, score + ?), vote_count = vote_count + 1, updated_at = ?
		 WHERE id = ?
		 RETURNING prev_score, `+proposalColumns,
		delta, formatTime(r.now()), id,
	)

	var old int
	record, err := scanProposal(row, &old)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("proposal", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply score delta: %w", err)
	}
	return &secondary.ScoreChange{OldScore: old, NewScore: record.Score, Proposal: record}, nil
}

// UpdateLevel applies update only while the proposal is still at
// expectedLevel and open.
func (r *ProposalRepository) UpdateLevel(ctx context.Context, id string, update secondary.LevelUpdate, expectedLevel string) (*secondary.ProposalRecord, error) {
	sets := []string{"level = ?", "status = ?", "updated_at = ?"}
	args := []any{update.Level, update.Status, formatTime(r.now())}

	if update.Visibility != "" {
		sets = append(sets, "visibility = ?")
		args = append(args, update.Visibility)
	}
	switch {
	case update.ClearDeadline:
		sets = append(sets, "voting_deadline = NULL")
	case update.VotingDeadline != nil:
		sets = append(sets, "voting_deadline = ?")
		args = append(args, formatTime(*update.VotingDeadline))
	}
	if update.DecisionBy != "" {
		sets = append(sets, "decision_by = ?", "decision_at = ?", "decision_reason = ?")
		args = append(args, update.DecisionBy, nullTime(update.DecisionAt), nullString(update.DecisionReason))
	}

	query := `UPDATE proposals SET ` + strings.Join(sets, ", ") +
		` WHERE id = ? AND level = ? AND ` + terminalClause +
		` RETURNING ` + proposalColumns
	args = append(args, id, expectedLevel)
	args = append(args, terminalStatuses...)

	record, err := scanProposal(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, apperr.New(apperr.CodeConflict,
			"proposal %s changed concurrently (expected level %s, found %s with status %s)", id, expectedLevel, current.Level, current.Status).
			WithDetail("expectedLevel", expectedLevel).
			WithDetail("level", current.Level)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update proposal level: %w", err)
	}
	return record, nil
}

// FindOverdueEscalated returns open proposals in levels whose deadline has passed.
func (r *ProposalRepository) FindOverdueEscalated(ctx context.Context, now time.Time, levels []string) ([]*secondary.ProposalRecord, error) {
	if len(levels) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(levels)), ", ")
	query := `SELECT ` + proposalColumns + ` FROM proposals
		WHERE voting_deadline IS NOT NULL AND voting_deadline < ?
		AND level IN (` + placeholders + `) AND ` + terminalClause + `
		ORDER BY voting_deadline ASC, id ASC`

	args := []any{formatTime(now)}
	for _, l := range levels {
		args = append(args, l)
	}
	args = append(args, terminalStatuses...)

	return r.query(ctx, query, args...)
}

// GetNextID returns the next available proposal ID.
func (r *ProposalRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM proposals WHERE id LIKE 'PROP-%'",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next proposal ID: %w", err)
	}
	return fmt.Sprintf("PROP-%03d", maxID+1), nil
}

// Ensure ProposalRepository implements the interface
var _ secondary.ProposalRepository = (*ProposalRepository)(nil)
