// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/example/agenda/internal/core/permission"
)

// ProposalRepository defines the secondary port for proposal persistence.
type ProposalRepository interface {
	// Create persists a new proposal.
	Create(ctx context.Context, proposal *ProposalRecord) error

	// GetByID retrieves a proposal by its ID.
	GetByID(ctx context.Context, id string) (*ProposalRecord, error)

	// List retrieves proposals matching the given filters.
	List(ctx context.Context, filters ProposalFilters) ([]*ProposalRecord, error)

	// ApplyScoreDelta adds delta to the score (clamped at zero) and returns
	// the old and new scores captured by the same statement.
	ApplyScoreDelta(ctx context.Context, id string, delta int) (*ScoreChange, error)

	// UpdateLevel applies update only if the proposal still sits at
	// expectedLevel. Returns a CONFLICT error otherwise.
	UpdateLevel(ctx context.Context, id string, update LevelUpdate, expectedLevel string) (*ProposalRecord, error)

	// FindOverdueEscalated returns non-terminal proposals in one of levels
	// whose voting deadline is before now.
	FindOverdueEscalated(ctx context.Context, now time.Time, levels []string) ([]*ProposalRecord, error)

	// GetNextID returns the next available proposal ID.
	GetNextID(ctx context.Context) (string, error)
}

// ProposalRecord represents a proposal as stored in persistence.
type ProposalRecord struct {
	ID             string
	AuthorID       string
	Title          string
	Department     string
	FacilityID     string
	Score          int
	VoteCount      int
	Level          string
	Status         string
	Visibility     string
	VotingDeadline *time.Time
	DecisionBy     string
	DecisionAt     *time.Time
	DecisionReason string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProposalFilters contains filter options for querying proposals.
type ProposalFilters struct {
	Level      string
	Status     string
	Department string
	FacilityID string
	MinScore   int
	// OpenOnly excludes archived and frozen-approved proposals.
	OpenOnly bool
	Limit    int
}

// ScoreChange is the result of an atomic score update.
type ScoreChange struct {
	OldScore int
	NewScore int
	Proposal *ProposalRecord
}

// LevelUpdate is the set of columns written by a tier change.
type LevelUpdate struct {
	Level          string
	Status         string
	Visibility     string // Empty keeps the stored visibility
	VotingDeadline *time.Time
	ClearDeadline  bool
	DecisionBy     string
	DecisionAt     *time.Time
	DecisionReason string
}

// ExpiredDecisionRepository defines the secondary port for the immutable
// expired-escalation decision log.
type ExpiredDecisionRepository interface {
	// Append stores a decision. A second decision for the same proposal and
	// voting deadline returns an ALREADY_DECIDED error.
	Append(ctx context.Context, decision *ExpiredDecisionRecord) error

	// ListByProposal returns decisions for a proposal, oldest first.
	ListByProposal(ctx context.Context, proposalID string) ([]*ExpiredDecisionRecord, error)
}

// ExpiredDecisionRecord represents an expired-escalation decision as stored in persistence.
type ExpiredDecisionRecord struct {
	ID              string
	ProposalID      string
	DeciderID       string
	Decision        string
	CurrentScore    int
	TargetScore     int
	AchievementRate float64
	DaysOverdue     int
	Reason          string
	FromLevel       string
	ToLevel         string
	VotingDeadline  time.Time
	CreatedAt       time.Time
}

// ReviewRecordRepository defines the secondary port for department review audit entries.
type ReviewRecordRepository interface {
	// Append stores a review record.
	Append(ctx context.Context, record *ReviewRecord) error

	// ListByProposal returns review records for a proposal, oldest first.
	ListByProposal(ctx context.Context, proposalID string) ([]*ReviewRecord, error)
}

// ReviewRecord represents a department review decision as stored in persistence.
type ReviewRecord struct {
	ID                string
	ProposalID        string
	ReviewerID        string
	Action            string
	Reason            string
	Comment           string
	ScoreSnapshot     int
	VoteCountSnapshot int
	FromLevel         string
	ToLevel           string
	CreatedAt         time.Time
}

// DocumentRepository defines the secondary port for companion proposal documents.
type DocumentRepository interface {
	// CreateIfAbsent stores doc unless the proposal already has a document.
	// created reports whether a row was written.
	CreateIfAbsent(ctx context.Context, doc *DocumentRecord) (created bool, err error)

	// GetByProposal retrieves the document for a proposal.
	GetByProposal(ctx context.Context, proposalID string) (*DocumentRecord, error)
}

// DocumentRecord represents a proposal document as stored in persistence.
type DocumentRecord struct {
	ID         string
	ProposalID string
	OwnerID    string
	Title      string
	Objectives string
	Effects    string
	Plan       string
	Status     string
	CreatedAt  time.Time
}

// Document status constants
const (
	DocumentStatusDraft = "draft"
)

// UserRepository defines the secondary port for users and their permission levels.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *UserRecord) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*UserRecord, error)

	// GetPermissionLevel returns the permission level of a user.
	GetPermissionLevel(ctx context.Context, id string) (permission.Level, error)

	// ListByScope returns users matching scope.
	ListByScope(ctx context.Context, scope UserScope) ([]*UserRecord, error)
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID         string
	Name       string
	Department string
	FacilityID string
	Permission permission.Level
	CreatedAt  time.Time
}

// UserScope selects users by organisation unit and permission range.
// Empty Department or FacilityID match any value. A zero MaxPermission means
// no upper bound.
type UserScope struct {
	UserID        string
	Department    string
	FacilityID    string
	MinPermission permission.Level
	MaxPermission permission.Level
}

// Transactor runs fn inside a transaction. Repositories called with the ctx
// passed to fn participate in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
