package expired

import (
	"time"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/permission"
)

// Decision is the outcome recorded for an expired escalation.
type Decision string

const (
	DecisionApprove   Decision = "approve_at_current_level"
	DecisionDowngrade Decision = "downgrade"
	DecisionReject    Decision = "reject"
)

// Valid reports whether d is a known decision.
func (d Decision) Valid() bool {
	switch d {
	case DecisionApprove, DecisionDowngrade, DecisionReject:
		return true
	}
	return false
}

// Policy is the expired-escalation pathway: a manager-tier decider and a
// non-empty reason.
var Policy = gate.Policy{
	Name:            "expired escalation decision",
	PermissionFloor: permission.Manager,
	PermissionCode:  apperr.CodeInsufficientPermission,
	ReasonMin:       1,
	AllowedSources:  EligibleLevels,
}

// DecideContext provides context for expired-escalation guards.
type DecideContext struct {
	gate.DecisionContext
	Decision       Decision
	VotingDeadline *time.Time
	Now            time.Time
}

// CanDecide evaluates whether a decision may be recorded.
// Rules:
// - Decision must be approve_at_current_level, downgrade or reject
// - Decider permission must be at least 7
// - Reason must be non-empty after trimming
// - Proposal must still be overdue; otherwise it was already decided
func CanDecide(ctx DecideContext) gate.GuardResult {
	if !ctx.Decision.Valid() {
		return gate.Deny(apperr.CodeValidation,
			"invalid decision %q (must be %s, %s or %s)", ctx.Decision, DecisionApprove, DecisionDowngrade, DecisionReject)
	}
	if r := Policy.CheckPermission(ctx.Actor); !r.Allowed {
		return r
	}
	if r := Policy.CheckReason(ctx.Reason); !r.Allowed {
		return r
	}
	if !IsOverdue(ctx.Level, ctx.Status, ctx.VotingDeadline, ctx.Now) {
		return gate.Deny(apperr.CodeAlreadyDecided,
			"proposal %s is not awaiting an expired-escalation decision (level: %s, status: %s)", ctx.ProposalID, ctx.Level, ctx.Status).
			With("level", string(ctx.Level)).
			With("status", ctx.Status)
	}
	return gate.Allow()
}
