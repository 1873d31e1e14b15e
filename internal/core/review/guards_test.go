package review

import (
	"strings"
	"testing"
	"time"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/core/gate"
	"github.com/example/agenda/internal/core/level"
	"github.com/example/agenda/internal/core/permission"
)

func reviewCtx(mutate func(*ReviewContext)) ReviewContext {
	ctx := ReviewContext{
		DecisionContext: gate.DecisionContext{
			ProposalID: "PROP-010",
			Actor:      permission.Of(5),
			Reason:     "well supported by the ward staff",
			Score:      64,
			Level:      level.DeptAgenda,
			Status:     level.StatusAwaitingSupervisor,
		},
		Action: ActionApprove,
	}
	if mutate != nil {
		mutate(&ctx)
	}
	return ctx
}

func TestCanReview(t *testing.T) {
	tests := []struct {
		name     string
		ctx      ReviewContext
		wantCode apperr.Code
	}{
		{name: "supervisor approves", ctx: reviewCtx(nil)},
		{
			name: "escalate regardless of score below 100",
			ctx:  reviewCtx(func(c *ReviewContext) { c.Action = ActionEscalate }),
		},
		{
			name: "reject",
			ctx:  reviewCtx(func(c *ReviewContext) { c.Action = ActionReject }),
		},
		{
			name:     "unknown action",
			ctx:      reviewCtx(func(c *ReviewContext) { c.Action = Action("defer") }),
			wantCode: apperr.CodeValidation,
		},
		{
			name:     "permission below 5",
			ctx:      reviewCtx(func(c *ReviewContext) { c.Actor = permission.Level(9) }),
			wantCode: apperr.CodeInsufficientPermission,
		},
		{
			name:     "nine character reason",
			ctx:      reviewCtx(func(c *ReviewContext) { c.Reason = "123456789" }),
			wantCode: apperr.CodeReasonTooShort,
		},
		{
			name:     "501 character reason",
			ctx:      reviewCtx(func(c *ReviewContext) { c.Reason = strings.Repeat("r", 501) }),
			wantCode: apperr.CodeReasonTooLong,
		},
		{
			name: "250 character reason",
			ctx:  reviewCtx(func(c *ReviewContext) { c.Reason = strings.Repeat("r", 250) }),
		},
		{
			name:     "score 49",
			ctx:      reviewCtx(func(c *ReviewContext) { c.Score = 49 }),
			wantCode: apperr.CodeScoreNotReached,
		},
		{
			name:     "already at facility",
			ctx:      reviewCtx(func(c *ReviewContext) { c.Level = level.FacilityAgenda; c.Score = 120 }),
			wantCode: apperr.CodeInvalidStatusTransition,
		},
		{
			name:     "already approved",
			ctx:      reviewCtx(func(c *ReviewContext) { c.Status = level.StatusApprovedDeptAgenda }),
			wantCode: apperr.CodeInvalidStatusTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanReview(tt.ctx)
			if tt.wantCode == "" {
				if !result.Allowed {
					t.Fatalf("expected allowed, got %s: %s", result.Code, result.Reason)
				}
				return
			}
			if result.Allowed {
				t.Fatalf("expected %s, got allowed", tt.wantCode)
			}
			if result.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s (%s)", result.Code, tt.wantCode, result.Reason)
			}
		})
	}
}

func TestGeneratePlan(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	base := PlanInput{
		ProposalID: "PROP-010",
		AuthorID:   "U-AUTH",
		Title:      "Standing desks",
		Current:    level.DeptAgenda,
		Score:      72,
		VoteCount:  41,
		Reason:     "  strong support from the team  ",
		Comment:    "budget next quarter",
		ReviewerID: "U-SUP",
		Now:        now,
	}

	t.Run("approve keeps the department tier and closes the proposal", func(t *testing.T) {
		in := base
		in.Action = ActionApprove
		plan := GeneratePlan(in)

		if plan.LevelChange.Level != level.DeptAgenda || plan.LevelChange.Status != level.StatusApprovedDeptAgenda {
			t.Errorf("change = %s / %q", plan.LevelChange.Level, plan.LevelChange.Status)
		}
		if plan.LevelChange.VotingDeadline != nil {
			t.Error("approval must not extend the deadline")
		}
		if plan.Record.ScoreSnapshot != 72 || plan.Record.VoteCountSnapshot != 41 {
			t.Errorf("snapshot = %d / %d", plan.Record.ScoreSnapshot, plan.Record.VoteCountSnapshot)
		}
		if plan.Record.Reason != "strong support from the team" {
			t.Errorf("Reason = %q", plan.Record.Reason)
		}
		if plan.Notifications[0].Template != "review.approve_as_dept_agenda.author" {
			t.Errorf("Template = %q", plan.Notifications[0].Template)
		}
	})

	t.Run("approve from department review moves to department agenda", func(t *testing.T) {
		in := base
		in.Current = level.DeptReview
		in.Action = ActionApprove
		plan := GeneratePlan(in)
		if plan.LevelChange.ExpectedLevel != level.DeptReview || plan.LevelChange.Level != level.DeptAgenda {
			t.Errorf("change = %s -> %s", plan.LevelChange.ExpectedLevel, plan.LevelChange.Level)
		}
		if plan.Record.FromLevel != level.DeptReview || plan.Record.ToLevel != level.DeptAgenda {
			t.Errorf("record = %s -> %s", plan.Record.FromLevel, plan.Record.ToLevel)
		}
	})

	t.Run("escalate sets facility agenda with a fresh deadline", func(t *testing.T) {
		in := base
		in.Action = ActionEscalate
		plan := GeneratePlan(in)

		if plan.LevelChange.Level != level.FacilityAgenda {
			t.Errorf("Level = %s", plan.LevelChange.Level)
		}
		if plan.LevelChange.VotingDeadline == nil || !plan.LevelChange.VotingDeadline.Equal(now.Add(14*24*time.Hour)) {
			t.Errorf("VotingDeadline = %v", plan.LevelChange.VotingDeadline)
		}
		if plan.Document == nil {
			t.Error("expected document effect")
		}
		if plan.Record.ToLevel != level.FacilityAgenda {
			t.Errorf("ToLevel = %s", plan.Record.ToLevel)
		}
		if plan.Notifications[1].Template != "review.escalate_to_facility.facility_directors" {
			t.Errorf("Template = %q", plan.Notifications[1].Template)
		}
	})

	t.Run("reject archives", func(t *testing.T) {
		in := base
		in.Action = ActionReject
		plan := GeneratePlan(in)
		if plan.LevelChange.Status != level.StatusArchived || plan.LevelChange.Level != level.DeptAgenda {
			t.Errorf("change = %s / %q", plan.LevelChange.Level, plan.LevelChange.Status)
		}
		if len(plan.Notifications) != 1 {
			t.Errorf("got %d notifications, want author only", len(plan.Notifications))
		}
	})
}
