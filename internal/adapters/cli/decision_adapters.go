package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/agenda/internal/ports/primary"
)

// EscalationAdapter translates CLI operations to EscalationService calls.
type EscalationAdapter struct {
	service primary.EscalationService
	out     io.Writer
}

// NewEscalationAdapter creates a new EscalationAdapter.
func NewEscalationAdapter(service primary.EscalationService, out io.Writer) *EscalationAdapter {
	return &EscalationAdapter{service: service, out: out}
}

// Escalate moves a proposal to a higher tier.
func (a *EscalationAdapter) Escalate(ctx context.Context, req primary.EscalateRequest) (*primary.Proposal, error) {
	p, err := a.service.Escalate(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Proposal %s escalated to %s\n", p.ID, levelLabel(p.Level))
	fmt.Fprintf(a.out, "  Status:   %s\n", p.Status)
	fmt.Fprintf(a.out, "  Deadline: %s\n", formatDeadline(p.VotingDeadline))
	return p, nil
}

// ReviewAdapter translates CLI operations to ReviewService calls.
type ReviewAdapter struct {
	service primary.ReviewService
	out     io.Writer
}

// NewReviewAdapter creates a new ReviewAdapter.
func NewReviewAdapter(service primary.ReviewService, out io.Writer) *ReviewAdapter {
	return &ReviewAdapter{service: service, out: out}
}

// Submit records a department review decision.
func (a *ReviewAdapter) Submit(ctx context.Context, req primary.ReviewRequest) (*primary.ReviewResult, error) {
	result, err := a.service.Review(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Review recorded for %s: %s\n", result.Proposal.ID, result.Record.Action)
	fmt.Fprintf(a.out, "  %s → %s (%s)\n", result.Record.FromLevel, levelLabel(result.Record.ToLevel), statusLabel(result.Proposal.Status))
	return result, nil
}

// Pending lists department agenda proposals waiting for review.
func (a *ReviewAdapter) Pending(ctx context.Context, filters primary.PendingReviewFilters) ([]*primary.Proposal, error) {
	proposals, err := a.service.ListPending(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		fmt.Fprintln(a.out, "No proposals awaiting department review.")
		return proposals, nil
	}
	writeProposalTable(a.out, proposals)
	return proposals, nil
}

// ExpiredAdapter translates CLI operations to ExpiredEscalationService calls.
type ExpiredAdapter struct {
	service primary.ExpiredEscalationService
	out     io.Writer
}

// NewExpiredAdapter creates a new ExpiredAdapter.
func NewExpiredAdapter(service primary.ExpiredEscalationService, out io.Writer) *ExpiredAdapter {
	return &ExpiredAdapter{service: service, out: out}
}

// List shows escalated proposals whose deadline has passed.
func (a *ExpiredAdapter) List(ctx context.Context) ([]*primary.OverdueProposal, error) {
	overdue, err := a.service.ListOverdue(ctx)
	if err != nil {
		return nil, err
	}
	if len(overdue) == 0 {
		fmt.Fprintln(a.out, "No expired escalations.")
		return overdue, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tLEVEL\tSCORE\tTARGET\tRATE\tOVERDUE\tTITLE")
	fmt.Fprintln(w, "--\t-----\t-----\t------\t----\t-------\t-----")
	for _, o := range overdue {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%dd\t%s\n",
			o.Proposal.ID,
			levelLabel(o.Proposal.Level),
			o.Proposal.Score,
			o.TargetScore,
			rateLabel(o.AchievementRate),
			o.DaysOverdue,
			o.Proposal.Title,
		)
	}
	w.Flush()
	return overdue, nil
}

// Decide resolves an expired escalation.
func (a *ExpiredAdapter) Decide(ctx context.Context, req primary.ExpiredDecisionRequest) (*primary.ExpiredDecision, error) {
	d, err := a.service.Decide(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Expired escalation for %s resolved: %s\n", d.ProposalID, d.Decision)
	fmt.Fprintf(a.out, "  %s → %s\n", d.FromLevel, levelLabel(d.ToLevel))
	fmt.Fprintf(a.out, "  Score %d of %d (%s), %d days overdue\n", d.CurrentScore, d.TargetScore, rateLabel(d.AchievementRate), d.DaysOverdue)
	return d, nil
}

// UserAdapter translates CLI operations to UserService calls.
type UserAdapter struct {
	service primary.UserService
	out     io.Writer
}

// NewUserAdapter creates a new UserAdapter.
func NewUserAdapter(service primary.UserService, out io.Writer) *UserAdapter {
	return &UserAdapter{service: service, out: out}
}

// Add registers a user.
func (a *UserAdapter) Add(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	u, err := a.service.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Created user %s (%s), permission %s\n", u.ID, u.Name, u.Permission)
	return u, nil
}

// Show displays a user.
func (a *UserAdapter) Show(ctx context.Context, userID string) (*primary.User, error) {
	u, err := a.service.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "\nUser: %s\n", u.ID)
	fmt.Fprintf(a.out, "Name:       %s\n", u.Name)
	fmt.Fprintf(a.out, "Department: %s / %s\n", u.Department, u.FacilityID)
	fmt.Fprintf(a.out, "Permission: %s\n", u.Permission)
	fmt.Fprintln(a.out)
	return u, nil
}
