package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/agenda/internal/ports/secondary"
)

// ReviewRecordRepository implements secondary.ReviewRecordRepository with SQLite.
type ReviewRecordRepository struct {
	db *sql.DB
}

// NewReviewRecordRepository creates a new SQLite review record repository.
func NewReviewRecordRepository(db *sql.DB) *ReviewRecordRepository {
	return &ReviewRecordRepository{db: db}
}

// Append stores a review record.
func (r *ReviewRecordRepository) Append(ctx context.Context, rec *secondary.ReviewRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO proposal_reviews
		 (id, proposal_id, reviewer_id, action, reason, comment, score_snapshot, vote_count_snapshot, from_level, to_level, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ProposalID, rec.ReviewerID, rec.Action, rec.Reason, nullString(rec.Comment),
		rec.ScoreSnapshot, rec.VoteCountSnapshot, rec.FromLevel, rec.ToLevel, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to append review record: %w", err)
	}
	return nil
}

// ListByProposal returns review records for a proposal, oldest first.
func (r *ReviewRecordRepository) ListByProposal(ctx context.Context, proposalID string) ([]*secondary.ReviewRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, proposal_id, reviewer_id, action, reason, comment, score_snapshot, vote_count_snapshot, from_level, to_level, created_at
		 FROM proposal_reviews WHERE proposal_id = ? ORDER BY created_at ASC, id ASC`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review records: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ReviewRecord
	for rows.Next() {
		var (
			rec       secondary.ReviewRecord
			comment   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.ProposalID, &rec.ReviewerID, &rec.Action, &rec.Reason, &comment,
			&rec.ScoreSnapshot, &rec.VoteCountSnapshot, &rec.FromLevel, &rec.ToLevel, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan review record: %w", err)
		}
		rec.Comment = comment.String
		if rec.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

var _ secondary.ReviewRecordRepository = (*ReviewRecordRepository)(nil)
