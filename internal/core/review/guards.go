// Package review contains the pure business logic for the department review
// decision taken once a proposal reaches the department agenda threshold.
// Guards are pure functions that evaluate preconditions without side effects.
package review

import (
	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/core/permission"
)

// Action is a department reviewer's decision.
type Action string

const (
	ActionApprove  Action = "approve_as_dept_agenda"
	ActionEscalate Action = "escalate_to_facility"
	ActionReject   Action = "reject"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionEscalate, ActionReject:
		return true
	}
	return false
}

// Reason length bounds for department review decisions.
const (
	MinReasonLength = 10
	MaxReasonLength = 500
)

// Policy is the department review pathway.
var Policy = gate.Policy{
	Name:            "department review",
	PermissionFloor: permission.Supervisor,
	PermissionCode:  apperr.CodeInsufficientPermission,
	ReasonMin:       MinReasonLength,
	ReasonMax:       MaxReasonLength,
	ShortCode:       apperr.CodeReasonTooShort,
	LongCode:        apperr.CodeReasonTooLong,
	ScoreFloor:      level.EnterScore(level.DeptAgenda),
	AllowedSources:  []level.Level{level.DeptReview, level.DeptAgenda},
}

// ReviewContext provides context for department review guards.
type ReviewContext struct {
	gate.DecisionContext
	Action Action
}

// CanReview evaluates whether a reviewer may record a decision.
// Rules:
// - Action must be one of approve_as_dept_agenda, escalate_to_facility, reject
// - Reviewer permission must be at least 5.0
// - Trimmed reason must be 10-500 characters
// - Proposal must be open and at a department tier
// - Score must be at least 50
func CanReview(ctx ReviewContext) gate.GuardResult {
	if !ctx.Action.Valid() {
		return gate.Deny(apperr.CodeValidation,
			"invalid action %q (must be %s, %s or %s)", ctx.Action, ActionApprove, ActionEscalate, ActionReject)
	}
	return Policy.Evaluate(ctx.DecisionContext)
}
