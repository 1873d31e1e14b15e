// Package escalation contains the pure business logic for permission-gated
// manual tier overrides.
// Guards are pure functions that evaluate preconditions without side effects.
package escalation

import (
	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/core/permission"
)

// Policy is the manual escalation pathway. The permission floor depends on
// the target tier, so it is applied by CanEscalate rather than the policy.
var Policy = gate.Policy{
	Name:      "manual escalation",
	ReasonMin: 1,
}

// EscalateContext provides context for manual escalation guards.
type EscalateContext struct {
	ProposalID string
	Current    level.Level
	Target     level.Level
	Status     string
	Actor      permission.Level
	Reason     string
}

// CanEscalate evaluates whether an actor may force a proposal into a tier.
// Rules:
// - Target must be a known tier
// - Proposal must not be closed
// - Target must rank above the current tier (skipping tiers is allowed)
// - Actor must meet the target tier's permission floor
// - Reason must be non-empty after trimming
//
// A target at or below the current tier is an illegal level jump and is
// denied with INVALID_STATUS_TRANSITION whatever the actor's permission.
// PERMISSION_DENIED is returned only for a forward target whose floor the
// actor does not meet.
func CanEscalate(ctx EscalateContext) gate.GuardResult {
	if !ctx.Target.Valid() {
		return gate.Deny(apperr.CodeValidation, "unknown target level %q", ctx.Target)
	}

	if level.IsTerminalStatus(ctx.Status) {
		return gate.Deny(apperr.CodeInvalidStatusTransition,
			"proposal %s is closed (status: %s)", ctx.ProposalID, ctx.Status).
			With("status", ctx.Status)
	}

	if !level.IsForward(ctx.Current, ctx.Target) {
		return gate.Deny(apperr.CodeInvalidStatusTransition,
			"cannot escalate proposal %s from %s to %s: target must rank above the current level", ctx.ProposalID, ctx.Current, ctx.Target).
			With("currentLevel", string(ctx.Current)).
			With("targetLevel", string(ctx.Target))
	}

	required := level.RequiredPermission(ctx.Target)
	if !level.IsLegalManualTransition(ctx.Current, ctx.Target, ctx.Actor) {
		return gate.Deny(apperr.CodePermissionDenied,
			"escalating to %s requires permission level %s (actor has %s)", ctx.Target, required, ctx.Actor).
			With("requiredLevel", required.String()).
			With("actorLevel", ctx.Actor.String()).
			With("targetLevel", string(ctx.Target))
	}

	return Policy.CheckReason(ctx.Reason)
}
