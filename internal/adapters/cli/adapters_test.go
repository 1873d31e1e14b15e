package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/agenda/internal/apperr"
	"github.com/example/agenda/internal/ports/primary"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// mockProposalService implements primary.ProposalService for testing
type mockProposalService struct {
	listFn func(ctx context.Context, filters primary.ProposalFilters) ([]*primary.Proposal, error)
	voteFn func(ctx context.Context, req primary.RecordVoteRequest) (*primary.VoteResult, error)
}

func (m *mockProposalService) CreateProposal(ctx context.Context, req primary.CreateProposalRequest) (*primary.Proposal, error) {
	return &primary.Proposal{ID: "PROP-001", Title: req.Title, Level: "PENDING", Status: "awaiting votes"}, nil
}

func (m *mockProposalService) GetProposal(ctx context.Context, id string) (*primary.Proposal, error) {
	if id == "PROP-404" {
		return nil, apperr.NotFound("proposal", id)
	}
	return &primary.Proposal{ID: id, Title: "Quiet hours", Score: 85, VoteCount: 17, Level: "FACILITY_AGENDA", Status: "awaiting facility-director review", DecisionBy: "USR-DIR", DecisionReason: "ward wide"}, nil
}

func (m *mockProposalService) ListProposals(ctx context.Context, filters primary.ProposalFilters) ([]*primary.Proposal, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockProposalService) RecordVote(ctx context.Context, req primary.RecordVoteRequest) (*primary.VoteResult, error) {
	if m.voteFn != nil {
		return m.voteFn(ctx, req)
	}
	return &primary.VoteResult{OldScore: 45, NewScore: 45 + req.Delta}, nil
}

func TestProposalAdapter_List(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		adapter := NewProposalAdapter(&mockProposalService{}, &out)
		if _, err := adapter.List(context.Background(), primary.ProposalFilters{}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "No proposals found.") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer
		svc := &mockProposalService{listFn: func(ctx context.Context, filters primary.ProposalFilters) ([]*primary.Proposal, error) {
			return []*primary.Proposal{
				{ID: "PROP-001", Score: 60, Level: "DEPT_AGENDA", Status: "awaiting supervisor review", Title: "Night handover"},
				{ID: "PROP-002", Score: 10, Level: "PENDING", Status: "archived", Title: "Parking"},
			}, nil
		}}
		adapter := NewProposalAdapter(svc, &out)
		if _, err := adapter.List(context.Background(), primary.ProposalFilters{}); err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"ID", "PROP-001", "DEPT_AGENDA", "Night handover", "archived"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("service error", func(t *testing.T) {
		svc := &mockProposalService{listFn: func(ctx context.Context, filters primary.ProposalFilters) ([]*primary.Proposal, error) {
			return nil, errors.New("db down")
		}}
		if _, err := NewProposalAdapter(svc, &bytes.Buffer{}).List(context.Background(), primary.ProposalFilters{}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestProposalAdapter_Vote(t *testing.T) {
	tests := []struct {
		name      string
		milestone *primary.MilestoneOutcome
		want      string
	}{
		{"no milestone", nil, "✓ Vote recorded on PROP-001: 45 → 50"},
		{"fired", &primary.MilestoneOutcome{Threshold: 50, Level: "DEPT_AGENDA", Fired: true}, "Milestone 50 reached: now DEPT_AGENDA"},
		{"skipped", &primary.MilestoneOutcome{Threshold: 50, Level: "DEPT_AGENDA", Skipped: "proposal already at a higher tier"}, "Milestone 50 not applied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			svc := &mockProposalService{voteFn: func(ctx context.Context, req primary.RecordVoteRequest) (*primary.VoteResult, error) {
				return &primary.VoteResult{OldScore: 45, NewScore: 50, Milestone: tt.milestone}, nil
			}}
			if _, err := NewProposalAdapter(svc, &out).Vote(context.Background(), "PROP-001", 5); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestProposalAdapter_Show(t *testing.T) {
	var out bytes.Buffer
	adapter := NewProposalAdapter(&mockProposalService{}, &out)

	if _, err := adapter.Show(context.Background(), "PROP-007"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Proposal: PROP-007", "85 (17 votes)", "FACILITY_AGENDA", "Decided by: USR-DIR", "Deadline:   -"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	if _, err := adapter.Show(context.Background(), "PROP-404"); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("code = %s, want NOT_FOUND", apperr.CodeOf(err))
	}
}

// mockExpiredService implements primary.ExpiredEscalationService for testing
type mockExpiredService struct {
	overdue []*primary.OverdueProposal
}

func (m *mockExpiredService) ListOverdue(ctx context.Context) ([]*primary.OverdueProposal, error) {
	return m.overdue, nil
}

func (m *mockExpiredService) Decide(ctx context.Context, req primary.ExpiredDecisionRequest) (*primary.ExpiredDecision, error) {
	return &primary.ExpiredDecision{
		ProposalID: req.ProposalID, Decision: req.Decision, CurrentScore: 85, TargetScore: 300,
		AchievementRate: 28.3, DaysOverdue: 3, FromLevel: "FACILITY_AGENDA", ToLevel: "DEPT_AGENDA",
	}, nil
}

func (m *mockExpiredService) ListDecisions(ctx context.Context, proposalID string) ([]*primary.ExpiredDecision, error) {
	return nil, nil
}

func TestExpiredAdapter(t *testing.T) {
	var out bytes.Buffer
	svc := &mockExpiredService{overdue: []*primary.OverdueProposal{{
		Proposal:        &primary.Proposal{ID: "PROP-007", Level: "FACILITY_AGENDA", Score: 85, Title: "Quiet hours"},
		TargetScore:     300,
		AchievementRate: 28.3,
		DaysOverdue:     3,
	}}}
	adapter := NewExpiredAdapter(svc, &out)

	if _, err := adapter.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"PROP-007", "300", "28.3%", "3d"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if _, err := adapter.Decide(context.Background(), primary.ExpiredDecisionRequest{ProposalID: "PROP-007", Decision: "downgrade"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "FACILITY_AGENDA → DEPT_AGENDA") {
		t.Errorf("decide output = %q", out.String())
	}

	out.Reset()
	if _, err := NewExpiredAdapter(&mockExpiredService{}, &out).List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No expired escalations.") {
		t.Errorf("empty output = %q", out.String())
	}
}

func TestRateLabel(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{85.0, "85.0%"},
		{28.3, "28.3%"},
		{0, "0.0%"},
	}
	for _, tt := range tests {
		if got := rateLabel(tt.rate); got != tt.want {
			t.Errorf("rateLabel(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}
