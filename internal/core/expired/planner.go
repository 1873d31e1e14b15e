package expired

import (
	"strings"
	"time"

	"github.com/example/agenda/internal/core/audience"
	"github.com/example/agenda/internal/core/effects"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/level"
)

// PlanInput contains the inputs needed to plan an allowed decision.
// All values are pre-fetched by the caller - no I/O in the planner.
type PlanInput struct {
	Assessment Assessment
	AuthorID   string
	Title      string
	Decision   Decision
	Reason     string
	DeciderID  string
	Now        time.Time
}

// Record is the immutable audit row for one resolution.
type Record struct {
	ProposalID      string
	DeciderID       string
	Decision        Decision
	CurrentScore    int
	TargetScore     int
	AchievementRate float64
	DaysOverdue     int
	Reason          string
	FromLevel       level.Level
	ToLevel         level.Level
	VotingDeadline  time.Time
	CreatedAt       time.Time
}

// Plan represents the planned effects of an expired-escalation decision.
type Plan struct {
	LevelChange   effects.LevelChangeEffect
	Record        Record
	Notifications []effects.NotifyEffect
}

// SideEffects returns the effects to run once the decision is committed.
func (p Plan) SideEffects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.Notifications))
	for _, n := range p.Notifications {
		result = append(result, n)
	}
	return result
}

// GeneratePlan creates the plan for a decision that passed CanDecide.
func GeneratePlan(input PlanInput) Plan {
	a := input.Assessment
	reason := strings.TrimSpace(input.Reason)

	change := effects.LevelChangeEffect{
		ProposalID:     a.ProposalID,
		ExpectedLevel:  a.Level,
		Level:          a.Level,
		DecisionBy:     input.DeciderID,
		DecisionAt:     input.Now,
		DecisionReason: reason,
	}

	switch input.Decision {
	case DecisionApprove:
		change.Status = level.StatusApprovedAtLevel
	case DecisionDowngrade:
		prev, _ := level.Previous(a.Level)
		change.Level = prev
		change.Status = level.AwaitingStatus(prev)
		change.ClearDeadline = true
	case DecisionReject:
		change.Status = level.StatusArchived
	}

	record := Record{
		ProposalID:      a.ProposalID,
		DeciderID:       input.DeciderID,
		Decision:        input.Decision,
		CurrentScore:    a.CurrentScore,
		TargetScore:     a.TargetScore,
		AchievementRate: a.AchievementRate,
		DaysOverdue:     a.DaysOverdue,
		Reason:          reason,
		FromLevel:       a.Level,
		ToLevel:         change.Level,
		VotingDeadline:  a.VotingDeadline,
		CreatedAt:       input.Now,
	}

	payload := map[string]any{
		"proposalId":      a.ProposalID,
		"title":           input.Title,
		"level":           string(change.Level),
		"previousLevel":   string(a.Level),
		"status":          change.Status,
		"decision":        string(input.Decision),
		"decisionBy":      input.DeciderID,
		"reason":          reason,
		"achievementRate": a.AchievementRate,
		"daysOverdue":     a.DaysOverdue,
		"authorId":        input.AuthorID,
	}
	key := audience.Key{Event: audience.EventExpired, Level: change.Level, Decision: string(input.Decision)}

	return Plan{
		LevelChange:   change,
		Record:        record,
		Notifications: gate.Notices(key, a.ProposalID, input.Now, payload),
	}
}
