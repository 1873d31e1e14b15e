// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI and HTTP adapters drive the engine.
package primary

import (
	"context"
	"time"
)

// ProposalService defines the primary port for proposal operations.
type ProposalService interface {
	// CreateProposal creates a proposal at PENDING with score 0.
	CreateProposal(ctx context.Context, req CreateProposalRequest) (*Proposal, error)

	// GetProposal retrieves a proposal by ID.
	GetProposal(ctx context.Context, proposalID string) (*Proposal, error)

	// ListProposals lists proposals with optional filters.
	ListProposals(ctx context.Context, filters ProposalFilters) ([]*Proposal, error)

	// RecordVote applies a score delta and fires the milestone it crosses.
	RecordVote(ctx context.Context, req RecordVoteRequest) (*VoteResult, error)
}

// Proposal represents a proposal at the port boundary.
type Proposal struct {
	ID             string     `json:"id"`
	AuthorID       string     `json:"authorId"`
	Title          string     `json:"title"`
	Department     string     `json:"department"`
	FacilityID     string     `json:"facilityId"`
	Score          int        `json:"score"`
	VoteCount      int        `json:"voteCount"`
	Level          string     `json:"level"`
	Status         string     `json:"status"`
	Visibility     string     `json:"visibility"`
	VotingDeadline *time.Time `json:"votingDeadline,omitempty"`
	DecisionBy     string     `json:"decisionBy,omitempty"`
	DecisionAt     *time.Time `json:"decisionAt,omitempty"`
	DecisionReason string     `json:"decisionReason,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// CreateProposalRequest contains the fields for a new proposal.
type CreateProposalRequest struct {
	AuthorID   string `json:"authorId"`
	Title      string `json:"title"`
	Department string `json:"department"`
	FacilityID string `json:"facilityId"`
}

// ProposalFilters contains filter options for listing proposals.
type ProposalFilters struct {
	Level      string
	Status     string
	Department string
	FacilityID string
	Limit      int
}

// RecordVoteRequest carries an already computed score delta.
type RecordVoteRequest struct {
	ProposalID string `json:"proposalId"`
	Delta      int    `json:"delta"`
}

// VoteResult reports the score change and any milestone that fired.
type VoteResult struct {
	Proposal  *Proposal         `json:"proposal"`
	OldScore  int               `json:"oldScore"`
	NewScore  int               `json:"newScore"`
	Milestone *MilestoneOutcome `json:"milestone,omitempty"`
}

// MilestoneOutcome describes a crossed threshold.
type MilestoneOutcome struct {
	Threshold int    `json:"threshold"`
	Level     string `json:"level"`
	Fired     bool   `json:"fired"`
	Skipped   string `json:"skipped,omitempty"`
}
