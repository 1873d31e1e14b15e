package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/ports/secondary"
)

// DocumentRepository implements secondary.DocumentRepository with SQLite.
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new SQLite document repository.
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// CreateIfAbsent inserts doc unless its proposal already has one.
func (r *DocumentRepository) CreateIfAbsent(ctx context.Context, doc *secondary.DocumentRecord) (bool, error) {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if doc.Status == "" {
		doc.Status = secondary.DocumentStatusDraft
	}

	result, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO proposal_documents (id, proposal_id, owner_id, title, objectives, effects, plan, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (proposal_id) DO NOTHING`,
		doc.ID, doc.ProposalID, doc.OwnerID, doc.Title, doc.Objectives, doc.Effects, doc.Plan, doc.Status, formatTime(doc.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to create document: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create document: %w", err)
	}
	return n == 1, nil
}

// GetByProposal retrieves the document for a proposal.
func (r *DocumentRepository) GetByProposal(ctx context.Context, proposalID string) (*secondary.DocumentRecord, error) {
	var (
		doc       secondary.DocumentRecord
		createdAt string
	)
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, proposal_id, owner_id, title, objectives, effects, plan, status, created_at
		 FROM proposal_documents WHERE proposal_id = ?`, proposalID,
	).Scan(&doc.ID, &doc.ProposalID, &doc.OwnerID, &doc.Title, &doc.Objectives, &doc.Effects, &doc.Plan, &doc.Status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("document for proposal", proposalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

var _ secondary.DocumentRepository = (*DocumentRepository)(nil)
