// Package expired contains the pure business logic for resolving escalated
// proposals whose voting window closed before they reached the next tier.
// This is part of the Functional Core - no I/O, only pure functions.
package expired

import (
	"math"
	"time"

	"github.com/example/agenda/internal/core/level"
)

// EligibleLevels are the escalated tiers that still have a forward threshold
// pending and can therefore expire.
var EligibleLevels = []level.Level{level.DeptAgenda, level.FacilityAgenda, level.CorpReview}

// IsEligibleLevel reports whether l can expire.
func IsEligibleLevel(l level.Level) bool {
	for _, e := range EligibleLevels {
		if e == l {
			return true
		}
	}
	return false
}

// IsOverdue reports whether a proposal is waiting on an expired-escalation
// decision at now.
func IsOverdue(l level.Level, status string, deadline *time.Time, now time.Time) bool {
	if deadline == nil || !deadline.Before(now) {
		return false
	}
	if level.IsTerminalStatus(status) {
		return false
	}
	return IsEligibleLevel(l)
}

// AchievementRate is currentScore/targetScore as a percentage rounded to one
// decimal place.
func AchievementRate(currentScore, targetScore int) float64 {
	if targetScore <= 0 {
		return 0
	}
	return math.Round(float64(currentScore)/float64(targetScore)*1000) / 10
}

// DaysOverdue is the number of whole days since deadline, never negative.
func DaysOverdue(deadline, now time.Time) int {
	d := now.Sub(deadline)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// Assessment summarises how far an overdue proposal got.
type Assessment struct {
	ProposalID      string
	Level           level.Level
	CurrentScore    int
	TargetScore     int
	AchievementRate float64
	DaysOverdue     int
	VotingDeadline  time.Time
}

// Assess computes the assessment for a proposal. ok is false when the tier
// has no forward threshold or the proposal has no deadline.
func Assess(proposalID string, l level.Level, score int, deadline *time.Time, now time.Time) (Assessment, bool) {
	if deadline == nil || !IsEligibleLevel(l) {
		return Assessment{}, false
	}
	target, ok := level.NextThreshold(l)
	if !ok {
		return Assessment{}, false
	}
	return Assessment{
		ProposalID:      proposalID,
		Level:           l,
		CurrentScore:    score,
		TargetScore:     target,
		AchievementRate: AchievementRate(score, target),
		DaysOverdue:     DaysOverdue(*deadline, now),
		VotingDeadline:  *deadline,
	}, true
}
