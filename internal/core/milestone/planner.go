// Package milestone decides which score milestone a vote event crossed and
// plans the side effects of that milestone.
// This is part of the Functional Core - no I/O, only pure functions.
package milestone

import (
	"fmt"
	"time"

	"github.com/example/agenda/internal/core/audience"
	"github.com/example/agenda/internal/core/effects"
	"github.com/example/agenda/internal/core/expired"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/level"
)

// DefaultVotingWindow is how long a proposal has to reach the next threshold
// after a milestone places it on an agenda tier.
const DefaultVotingWindow = 14 * 24 * time.Hour

// milestoneLevels are checked highest first; only one fires per event.
var milestoneLevels = []level.Level{level.FacilityAgenda, level.DeptAgenda, level.DeptReview}

// Thresholds returns the milestone thresholds in evaluation order.
func Thresholds() []int {
	out := make([]int, len(milestoneLevels))
	for i, l := range milestoneLevels {
		out[i] = level.EnterScore(l)
	}
	return out
}

// DetectCrossing returns the single highest milestone threshold t with
// oldScore < t <= newScore.
func DetectCrossing(oldScore, newScore int) (threshold int, target level.Level, ok bool) {
	for _, l := range milestoneLevels {
		t := level.EnterScore(l)
		if newScore >= t && oldScore < t {
			return t, l, true
		}
	}
	return 0, "", false
}

// PlanInput contains the inputs needed to generate a milestone plan.
// All values are pre-fetched by the caller - no I/O in the planner.
type PlanInput struct {
	ProposalID   string
	AuthorID     string
	Title        string
	CurrentLevel level.Level
	Status       string
	OldScore     int
	NewScore     int
	Now          time.Time
	// VotingWindow opens the deadline on agenda tiers. Non-positive uses
	// DefaultVotingWindow.
	VotingWindow time.Duration
}

// Plan represents the planned effects of one vote event.
type Plan struct {
	ProposalID string
	Threshold  int
	Fired      bool
	// Skipped explains why a crossed threshold produced no changes.
	Skipped string

	LevelChange   *effects.LevelChangeEffect
	Document      *effects.DocumentEffect
	Notifications []effects.NotifyEffect
}

// SideEffects returns the effects to run once the level change is committed.
// A crossed threshold always yields a log entry; a skipped one yields nothing
// else.
func (p Plan) SideEffects() []effects.Effect {
	if p.Threshold == 0 {
		return nil
	}
	result := make([]effects.Effect, 0, len(p.Notifications)+2)
	if p.Fired {
		if p.Document != nil {
			result = append(result, *p.Document)
		}
		for _, n := range p.Notifications {
			result = append(result, n)
		}
	}
	return append(result, p.logEffect())
}

func (p Plan) logEffect() effects.LogEffect {
	fields := map[string]any{
		"proposal_id": p.ProposalID,
		"threshold":   p.Threshold,
		"fired":       p.Fired,
	}
	if p.Skipped != "" {
		fields["skipped"] = p.Skipped
	}
	return effects.LogEffect{Level: "info", Message: "milestone crossed", Fields: fields}
}

// GeneratePlan creates the plan for a score change.
// A milestone never moves a proposal backwards: if the proposal already sits
// at or above the milestone tier, or is closed, nothing fires.
func GeneratePlan(input PlanInput) Plan {
	plan := Plan{ProposalID: input.ProposalID}

	threshold, target, ok := DetectCrossing(input.OldScore, input.NewScore)
	if !ok {
		return plan
	}
	plan.Threshold = threshold

	if level.IsTerminalStatus(input.Status) {
		plan.Skipped = fmt.Sprintf("proposal is closed (status: %s)", input.Status)
		return plan
	}
	if !level.IsForward(input.CurrentLevel, target) {
		plan.Skipped = fmt.Sprintf("proposal already at %s", input.CurrentLevel)
		return plan
	}

	plan.Fired = true
	status := level.AwaitingStatus(target)
	plan.LevelChange = &effects.LevelChangeEffect{
		ProposalID:    input.ProposalID,
		ExpectedLevel: input.CurrentLevel,
		Level:         target,
		Status:        status,
	}
	if expired.IsEligibleLevel(target) {
		window := input.VotingWindow
		if window <= 0 {
			window = DefaultVotingWindow
		}
		deadline := input.Now.Add(window)
		plan.LevelChange.VotingDeadline = &deadline
	}

	if target == level.FacilityAgenda {
		plan.LevelChange.Visibility = effects.VisibilityFacility
		plan.Document = &effects.DocumentEffect{
			ProposalID: input.ProposalID,
			OwnerID:    input.AuthorID,
			Title:      input.Title,
		}
	}

	payload := map[string]any{
		"proposalId": input.ProposalID,
		"title":      input.Title,
		"level":      string(target),
		"status":     status,
		"threshold":  threshold,
		"score":      input.NewScore,
		"authorId":   input.AuthorID,
	}
	if d := plan.LevelChange.VotingDeadline; d != nil {
		payload["votingDeadline"] = d.UTC().Format(time.RFC3339)
	}
	plan.Notifications = gate.Notices(audience.Key{Event: audience.EventMilestone, Level: target}, input.ProposalID, input.Now, payload)

	return plan
}
