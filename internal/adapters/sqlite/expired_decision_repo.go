package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/ports/secondary"
)

// ExpiredDecisionRepository implements secondary.ExpiredDecisionRepository
// with SQLite. The (proposal_id, voting_deadline) unique key allows one
// resolution per expired deadline.
type ExpiredDecisionRepository struct {
	db *sql.DB
}

// NewExpiredDecisionRepository creates a new SQLite expired decision repository.
func NewExpiredDecisionRepository(db *sql.DB) *ExpiredDecisionRepository {
	return &ExpiredDecisionRepository{db: db}
}

// Append stores a decision.
func (r *ExpiredDecisionRepository) Append(ctx context.Context, d *secondary.ExpiredDecisionRecord) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO expired_escalation_decisions
		 (id, proposal_id, decider_id, decision, current_score, target_score, achievement_rate, days_overdue, reason, from_level, to_level, voting_deadline, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.ProposalID, d.DeciderID, d.Decision, d.CurrentScore, d.TargetScore, d.AchievementRate,
		d.DaysOverdue, d.Reason, d.FromLevel, d.ToLevel, formatTime(d.VotingDeadline), formatTime(d.CreatedAt),
	)
	if isUniqueViolation(err) {
		return apperr.New(apperr.CodeAlreadyDecided, "expired escalation for proposal %s has already been decided", d.ProposalID).
			WithDetail("proposalId", d.ProposalID)
	}
	if err != nil {
		return fmt.Errorf("failed to append expired decision: %w", err)
	}
	return nil
}

// ListByProposal returns decisions for a proposal, oldest first.
func (r *ExpiredDecisionRepository) ListByProposal(ctx context.Context, proposalID string) ([]*secondary.ExpiredDecisionRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, proposal_id, decider_id, decision, current_score, target_score, achievement_rate, days_overdue, reason, from_level, to_level, voting_deadline, created_at
		 FROM expired_escalation_decisions WHERE proposal_id = ? ORDER BY created_at ASC, id ASC`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired decisions: %w", err)
	}
	defer rows.Close()

	var decisions []*secondary.ExpiredDecisionRecord
	for rows.Next() {
		var (
			d                   secondary.ExpiredDecisionRecord
			deadline, createdAt string
		)
		if err := rows.Scan(&d.ID, &d.ProposalID, &d.DeciderID, &d.Decision, &d.CurrentScore, &d.TargetScore,
			&d.AchievementRate, &d.DaysOverdue, &d.Reason, &d.FromLevel, &d.ToLevel, &deadline, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expired decision: %w", err)
		}
		if d.VotingDeadline, err = parseTime(deadline); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		decisions = append(decisions, &d)
	}
	return decisions, rows.Err()
}

var _ secondary.ExpiredDecisionRepository = (*ExpiredDecisionRepository)(nil)
