package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/agenda/internal/ports/secondary"
)

// NotificationOutbox implements secondary.NotificationOutbox with SQLite.
type NotificationOutbox struct {
	db *sql.DB
}

// NewNotificationOutbox creates a new SQLite notification outbox.
func NewNotificationOutbox(db *sql.DB) *NotificationOutbox {
	return &NotificationOutbox{db: db}
}

// Enqueue stores n, ignoring duplicates for the same proposal, template,
// occurrence and recipient.
func (o *NotificationOutbox) Enqueue(ctx context.Context, n *secondary.NotificationRecord) (bool, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Payload == "" {
		n.Payload = "{}"
	}
	result, err := conn(ctx, o.db).ExecContext(ctx,
		`INSERT INTO notifications (id, proposal_id, template, occurrence, recipient_id, kind, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (proposal_id, template, occurrence, recipient_id) DO NOTHING`,
		n.ID, n.ProposalID, n.Template, n.Occurrence, n.RecipientID, n.Kind, n.Payload, formatTime(n.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to enqueue notification: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return affected == 1, nil
}

// ListByProposal returns queued notifications for a proposal ordered by
// template, occurrence, then recipient.
func (o *NotificationOutbox) ListByProposal(ctx context.Context, proposalID string) ([]*secondary.NotificationRecord, error) {
	rows, err := conn(ctx, o.db).QueryContext(ctx,
		`SELECT id, proposal_id, template, occurrence, recipient_id, kind, payload, created_at
		 FROM notifications WHERE proposal_id = ? ORDER BY template, occurrence, recipient_id`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var records []*secondary.NotificationRecord
	for rows.Next() {
		var (
			n         secondary.NotificationRecord
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.ProposalID, &n.Template, &n.Occurrence, &n.RecipientID, &n.Kind, &n.Payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		records = append(records, &n)
	}
	return records, rows.Err()
}

var _ secondary.NotificationOutbox = (*NotificationOutbox)(nil)
