package review

import (
	"strings"
	"time"

	"github.com/example/agenda/internal/core/audience"
	"github.com/example/agenda/internal/core/effects"
	"github.com/example/agenda/internal/core/escalation"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/level"
)

// PlanInput contains the inputs needed to plan an allowed review decision.
// All values are pre-fetched by the caller - no I/O in the planner.
type PlanInput struct {
	ProposalID     string
	AuthorID       string
	Title          string
	Current        level.Level
	Score          int
	VoteCount      int
	Action         Action
	Reason         string
	Comment        string
	ReviewerID     string
	Now            time.Time
	Extension      time.Duration
	DocumentExists bool
}

// Record is the audit entry appended for every review decision.
type Record struct {
	ProposalID        string
	ReviewerID        string
	Action            Action
	Reason            string
	Comment           string
	ScoreSnapshot     int
	VoteCountSnapshot int
	FromLevel         level.Level
	ToLevel           level.Level
	CreatedAt         time.Time
}

// Plan represents the planned effects of a review decision.
type Plan struct {
	LevelChange   effects.LevelChangeEffect
	Record        Record
	Document      *effects.DocumentEffect
	Notifications []effects.NotifyEffect
}

// SideEffects returns the effects to run once the decision is committed.
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

// GeneratePlan creates the plan for a review decision that passed CanReview.
func GeneratePlan(input PlanInput) Plan {
	reason := strings.TrimSpace(input.Reason)
	record := Record{
		ProposalID:        input.ProposalID,
		ReviewerID:        input.ReviewerID,
		Action:            input.Action,
		Reason:            reason,
		Comment:           strings.TrimSpace(input.Comment),
		ScoreSnapshot:     input.Score,
		VoteCountSnapshot: input.VoteCount,
		FromLevel:         input.Current,
		CreatedAt:         input.Now,
	}

	if input.Action == ActionEscalate {
		esc := escalation.GeneratePlan(escalation.PlanInput{
			ProposalID:     input.ProposalID,
			AuthorID:       input.AuthorID,
			Title:          input.Title,
			Current:        input.Current,
			Target:         level.FacilityAgenda,
			ActorID:        input.ReviewerID,
			Reason:         reason,
			Now:            input.Now,
			Extension:      input.Extension,
			DocumentExists: input.DocumentExists,
			Event:          audience.EventReview,
			Decision:       string(ActionEscalate),
		})
		record.ToLevel = level.FacilityAgenda
		return Plan{
			LevelChange:   esc.LevelChange,
			Record:        record,
			Document:      esc.Document,
			Notifications: esc.Notifications,
		}
	}

	change := effects.LevelChangeEffect{
		ProposalID:     input.ProposalID,
		ExpectedLevel:  input.Current,
		Level:          input.Current,
		DecisionBy:     input.ReviewerID,
		DecisionAt:     input.Now,
		DecisionReason: reason,
	}

	switch input.Action {
	case ActionApprove:
		change.Level = level.DeptAgenda
		change.Status = level.StatusApprovedDeptAgenda
	case ActionReject:
		change.Status = level.StatusArchived
	}
	record.ToLevel = change.Level

	payload := map[string]any{
		"proposalId": input.ProposalID,
		"title":      input.Title,
		"level":      string(change.Level),
		"status":     change.Status,
		"decision":   string(input.Action),
		"decisionBy": input.ReviewerID,
		"reason":     reason,
		"authorId":   input.AuthorID,
	}
	key := audience.Key{Event: audience.EventReview, Level: change.Level, Decision: string(input.Action)}

	return Plan{
		LevelChange:   change,
		Record:        record,
		Notifications: gate.Notices(key, input.ProposalID, input.Now, payload),
	}
}
