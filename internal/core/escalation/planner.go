package escalation

import (
	"strings"
	"time"

	"github.com/example/agenda/internal/core/audience"
	"github.com/example/agenda/internal/core/effects"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/level"
)

// DefaultDeadlineExtension is how long voting stays open after a manual jump.
const DefaultDeadlineExtension = 14 * 24 * time.Hour

// PlanInput contains the inputs needed to plan an allowed escalation.
// All values are pre-fetched by the caller - no I/O in the planner.
type PlanInput struct {
	ProposalID     string
	AuthorID       string
	Title          string
	Current        level.Level
	Target         level.Level
	ActorID        string
	Reason         string
	Now            time.Time
	Extension      time.Duration
	DocumentExists bool
	// Event lets other pathways (department review) reuse the plan.
	Event    audience.Event
	Decision string
}

// Plan represents the planned effects of a manual escalation.
type Plan struct {
	LevelChange   effects.LevelChangeEffect
	Document      *effects.DocumentEffect
	Notifications []effects.NotifyEffect
}

// SideEffects returns the effects to run once the level change is committed.
func (p Plan) SideEffects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.Notifications)+1)
	if p.Document != nil {
		result = append(result, *p.Document)
	}
	for _, n := range p.Notifications {
		result = append(result, n)
	}
	return result
}

// GeneratePlan creates the plan for entering input.Target. The caller must
// have passed CanEscalate (or an equivalent gate) first.
func GeneratePlan(input PlanInput) Plan {
	ext := input.Extension
	if ext <= 0 {
		ext = DefaultDeadlineExtension
	}
	deadline := input.Now.Add(ext)
	status := level.AwaitingStatus(input.Target)

	change := effects.LevelChangeEffect{
		ProposalID:     input.ProposalID,
		ExpectedLevel:  input.Current,
		Level:          input.Target,
		Status:         status,
		VotingDeadline: &deadline,
		DecisionBy:     input.ActorID,
		DecisionAt:     input.Now,
		DecisionReason: strings.TrimSpace(input.Reason),
	}

	plan := Plan{LevelChange: change}

	if level.Rank(input.Target) >= level.Rank(level.FacilityAgenda) {
		plan.LevelChange.Visibility = effects.VisibilityFacility
		if !input.DocumentExists {
			plan.Document = &effects.DocumentEffect{
				ProposalID: input.ProposalID,
				OwnerID:    input.AuthorID,
				Title:      input.Title,
			}
		}
	}

	event := input.Event
	if event == "" {
		event = audience.EventEscalation
	}
	key := audience.Key{Event: event, Level: input.Target, Decision: input.Decision}
	payload := map[string]any{
		"proposalId":     input.ProposalID,
		"title":          input.Title,
		"level":          string(input.Target),
		"previousLevel":  string(input.Current),
		"status":         status,
		"decisionBy":     input.ActorID,
		"reason":         change.DecisionReason,
		"votingDeadline": deadline.UTC().Format(time.RFC3339),
		"authorId":       input.AuthorID,
	}
	plan.Notifications = gate.Notices(key, input.ProposalID, input.Now, payload)

	return plan
}
