// Package gate is the shared decision core behind every human-driven tier
// change. Each pathway (manual escalation, department review, expired
// resolution) declares a Policy; Evaluate applies it uniformly.
// Guards are pure functions that evaluate preconditions without side effects.
package gate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/core/permission"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    apperr.Code
	Reason  string
	Details map[string]any
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &apperr.Error{Code: r.Code, Message: r.Reason, Details: r.Details}
}

// Allow is the passing result.
func Allow() GuardResult {
	return GuardResult{Allowed: true}
}

// Deny builds a failing result.
func Deny(code apperr.Code, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Code: code, Reason: fmt.Sprintf(format, args...)}
}

// With returns r with a detail attached.
func (r GuardResult) With(key string, value any) GuardResult {
	details := make(map[string]any, len(r.Details)+1)
	for k, v := range r.Details {
		details[k] = v
	}
	details[key] = value
	r.Details = details
	return r
}

// Policy describes what a decision pathway requires of its actor and input.
type Policy struct {
	Name string

	// PermissionFloor is the minimum actor level; permission.None disables it.
	PermissionFloor permission.Level
	// PermissionCode is reported when the floor is not met.
	PermissionCode apperr.Code

	// ReasonMin and ReasonMax bound the trimmed reason length in characters.
	// ReasonMax of zero means unbounded.
	ReasonMin int
	ReasonMax int
	// ShortCode and LongCode are reported for out-of-range reasons.
	ShortCode apperr.Code
	LongCode  apperr.Code

	// ScoreFloor is the minimum proposal score; zero disables it.
	ScoreFloor int

	// AllowedSources restricts the tier a proposal must occupy. Empty allows any.
	AllowedSources []level.Level
}

// DecisionContext carries the pre-fetched facts a policy is evaluated against.
type DecisionContext struct {
	ProposalID string
	Actor      permission.Level
	Reason     string
	Score      int
	Level      level.Level
	Status     string
}

// Evaluate checks ctx against the policy. Order: actor permission, reason,
// proposal state (terminal status, source tier, score floor).
func (p Policy) Evaluate(ctx DecisionContext) GuardResult {
	if r := p.CheckPermission(ctx.Actor); !r.Allowed {
		return r
	}
	if r := p.CheckReason(ctx.Reason); !r.Allowed {
		return r
	}
	if level.IsTerminalStatus(ctx.Status) {
		return Deny(apperr.CodeInvalidStatusTransition,
			"proposal %s is closed (status: %s)", ctx.ProposalID, ctx.Status).
			With("status", ctx.Status)
	}
	if r := p.CheckSource(ctx.ProposalID, ctx.Level); !r.Allowed {
		return r
	}
	if p.ScoreFloor > 0 && ctx.Score < p.ScoreFloor {
		return Deny(apperr.CodeScoreNotReached,
			"proposal %s has score %d, %s requires at least %d", ctx.ProposalID, ctx.Score, p.Name, p.ScoreFloor).
			With("score", ctx.Score).
			With("requiredScore", p.ScoreFloor)
	}
	return Allow()
}

// CheckPermission applies the permission floor.
func (p Policy) CheckPermission(actor permission.Level) GuardResult {
	if p.PermissionFloor == permission.None || actor.AtLeast(p.PermissionFloor) {
		return Allow()
	}
	code := p.PermissionCode
	if code == "" {
		code = apperr.CodeInsufficientPermission
	}
	return Deny(code, "%s requires permission level %s (actor has %s)", p.Name, p.PermissionFloor, actor).
		With("requiredLevel", p.PermissionFloor.String()).
		With("actorLevel", actor.String())
}

// CheckReason applies the reason length bounds.
func (p Policy) CheckReason(reason string) GuardResult {
	n := ReasonLength(reason)
	if n == 0 && p.ReasonMin > 0 {
		code := apperr.CodeValidation
		if p.ReasonMin > 1 && p.ShortCode != "" {
			code = p.ShortCode
		}
		return Deny(code, "reason is required").With("minLength", p.ReasonMin)
	}
	if n < p.ReasonMin {
		return Deny(orDefault(p.ShortCode), "reason must be at least %d characters (got %d)", p.ReasonMin, n).
			With("minLength", p.ReasonMin).
			With("length", n)
	}
	if p.ReasonMax > 0 && n > p.ReasonMax {
		return Deny(orDefault(p.LongCode), "reason must be at most %d characters (got %d)", p.ReasonMax, n).
			With("maxLength", p.ReasonMax).
			With("length", n)
	}
	return Allow()
}

// CheckSource applies the allowed source tiers.
func (p Policy) CheckSource(proposalID string, current level.Level) GuardResult {
	if len(p.AllowedSources) == 0 {
		return Allow()
	}
	for _, l := range p.AllowedSources {
		if l == current {
			return Allow()
		}
	}
	names := make([]string, len(p.AllowedSources))
	for i, l := range p.AllowedSources {
		names[i] = string(l)
	}
	return Deny(apperr.CodeInvalidStatusTransition,
		"%s does not apply to proposal %s at level %s (allowed: %s)", p.Name, proposalID, current, strings.Join(names, ", ")).
		With("level", string(current))
}

// ReasonLength is the trimmed length of reason in characters.
func ReasonLength(reason string) int {
	return utf8.RuneCountInString(strings.TrimSpace(reason))
}

func orDefault(code apperr.Code) apperr.Code {
	if code == "" {
		return apperr.CodeValidation
	}
	return code
}
