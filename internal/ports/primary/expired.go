package primary

import (
	"context"
	"time"
)

// ExpiredEscalationService defines the primary port for resolving escalated
// proposals whose voting window closed.
type ExpiredEscalationService interface {
	// ListOverdue lists overdue escalated proposals with their achievement.
	ListOverdue(ctx context.Context) ([]*OverdueProposal, error)

	// Decide records the resolution of an overdue proposal.
	Decide(ctx context.Context, req ExpiredDecisionRequest) (*ExpiredDecision, error)

	// ListDecisions returns the decision history of a proposal.
	ListDecisions(ctx context.Context, proposalID string) ([]*ExpiredDecision, error)
}

// OverdueProposal is a proposal annotated with how close it got.
type OverdueProposal struct {
	Proposal        *Proposal `json:"proposal"`
	TargetScore     int       `json:"targetScore"`
	AchievementRate float64   `json:"achievementRate"`
	DaysOverdue     int       `json:"daysOverdue"`
}

// ExpiredDecisionRequest contains the parameters for a resolution.
type ExpiredDecisionRequest struct {
	ProposalID string `json:"postId"`
	Decision   string `json:"decision"` // approve_at_current_level, downgrade, reject
	Reason     string `json:"reason"`
	DeciderID  string `json:"deciderId"`
}

// ExpiredDecision is an expired-escalation decision at the port boundary.
type ExpiredDecision struct {
	ID              string    `json:"id"`
	ProposalID      string    `json:"postId"`
	DeciderID       string    `json:"deciderId"`
	Decision        string    `json:"decision"`
	CurrentScore    int       `json:"currentScore"`
	TargetScore     int       `json:"targetScore"`
	AchievementRate float64   `json:"achievementRate"`
	DaysOverdue     int       `json:"daysOverdue"`
	Reason          string    `json:"reason"`
	FromLevel       string    `json:"fromLevel"`
	ToLevel         string    `json:"toLevel"`
	VotingDeadline  time.Time `json:"votingDeadline"`
	CreatedAt       time.Time `json:"createdAt"`
}
