package primary

import (
	"context"
	"time"
)

// ReviewService defines the primary port for department review decisions.
type ReviewService interface {
	// Review records a supervisor decision on a department-tier proposal.
	Review(ctx context.Context, req ReviewRequest) (*ReviewResult, error)

	// ListPending lists proposals waiting on a department review.
	ListPending(ctx context.Context, filters PendingReviewFilters) ([]*Proposal, error)

	// ListReviews returns the review history of a proposal.
	ListReviews(ctx context.Context, proposalID string) ([]*ReviewRecord, error)
}

// ReviewRequest contains the parameters for a review decision.
type ReviewRequest struct {
	ProposalID string `json:"proposalId"`
	Action     string `json:"action"` // approve_as_dept_agenda, escalate_to_facility, reject
	Reason     string `json:"reason"`
	Comment    string `json:"comment,omitempty"`
	ReviewerID string `json:"reviewerId"`
}

// ReviewResult is the outcome of a review decision.
type ReviewResult struct {
	Proposal *Proposal    `json:"proposal"`
	Record   ReviewRecord `json:"record"`
}

// ReviewRecord is a department review audit entry at the port boundary.
type ReviewRecord struct {
	ID                string    `json:"id"`
	ProposalID        string    `json:"postId"`
	ReviewerID        string    `json:"reviewerId"`
	Action            string    `json:"action"`
	Reason            string    `json:"reason"`
	Comment           string    `json:"comment,omitempty"`
	ScoreSnapshot     int       `json:"scoreSnapshot"`
	VoteCountSnapshot int       `json:"voteCountSnapshot"`
	FromLevel         string    `json:"fromLevel"`
	ToLevel           string    `json:"toLevel"`
	CreatedAt         time.Time `json:"createdAt"`
}

// PendingReviewFilters contains filter options for the pending review list.
// A zero MinScore uses the review score floor.
type PendingReviewFilters struct {
	MinScore   int
	Department string
	FacilityID string
}
