package level

import "github.com/example/agenda/internal/core/permission"

// TargetLevelForScore returns the highest tier whose entry threshold is at or
// below score. Scores below zero map to PENDING.
func TargetLevelForScore(score int) Level {
	target := Pending
	for _, e := range Table {
		if score >= e.EnterScore {
			target = e.Level
		}
	}
	return target
}

// IsLegalManualTransition reports whether actor may force a proposal from
// current into target. The target must rank strictly above current and the
// actor must meet the target's floor. Intermediate tiers may be skipped.
func IsLegalManualTransition(current, target Level, actor permission.Level) bool {
	if !IsForward(current, target) {
		return false
	}
	return actor.AtLeast(RequiredPermission(target))
}

// IsForward reports whether target ranks strictly above current.
func IsForward(current, target Level) bool {
	return target.Valid() && current.Valid() && Rank(target) > Rank(current)
}
