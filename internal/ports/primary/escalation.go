package primary

import "context"

// EscalationService defines the primary port for manual tier overrides.
type EscalationService interface {
	// Escalate moves a proposal forward to req.TargetLevel.
	Escalate(ctx context.Context, req EscalateRequest) (*Proposal, error)
}

// EscalateRequest contains the parameters for a manual escalation.
type EscalateRequest struct {
	ProposalID  string `json:"proposalId"`
	TargetLevel string `json:"targetLevel"`
	Reason      string `json:"reason"`
	ActorID     string `json:"actorId"`
}
