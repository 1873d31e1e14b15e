package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/agenda/internal/ports/primary"
)

// ProposalAdapter translates CLI operations to ProposalService calls.
type ProposalAdapter struct {
	service primary.ProposalService
	out     io.Writer
}

// NewProposalAdapter creates a new ProposalAdapter.
func NewProposalAdapter(service primary.ProposalService, out io.Writer) *ProposalAdapter {
	return &ProposalAdapter{service: service, out: out}
}

// Create creates a proposal.
func (a *ProposalAdapter) Create(ctx context.Context, req primary.CreateProposalRequest) (*primary.Proposal, error) {
	proposal, err := a.service.CreateProposal(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Created proposal %s: %s\n", proposal.ID, proposal.Title)
	fmt.Fprintf(a.out, "  Level: %s (%s)\n", levelLabel(proposal.Level), proposal.Status)
	return proposal, nil
}

// Show displays a single proposal.
func (a *ProposalAdapter) Show(ctx context.Context, proposalID string) (*primary.Proposal, error) {
	p, err := a.service.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nProposal: %s\n", p.ID)
	fmt.Fprintf(a.out, "Title:      %s\n", p.Title)
	fmt.Fprintf(a.out, "Author:     %s\n", p.AuthorID)
	fmt.Fprintf(a.out, "Department: %s / %s\n", p.Department, p.FacilityID)
	fmt.Fprintf(a.out, "Score:      %d (%d votes)\n", p.Score, p.VoteCount)
	fmt.Fprintf(a.out, "Level:      %s\n", levelLabel(p.Level))
	fmt.Fprintf(a.out, "Status:     %s\n", statusLabel(p.Status))
	fmt.Fprintf(a.out, "Visibility: %s\n", p.Visibility)
	fmt.Fprintf(a.out, "Deadline:   %s\n", formatDeadline(p.VotingDeadline))
	if p.DecisionBy != "" {
		fmt.Fprintf(a.out, "Decided by: %s at %s\n", p.DecisionBy, formatDeadline(p.DecisionAt))
		fmt.Fprintf(a.out, "Reason:     %s\n", p.DecisionReason)
	}
	fmt.Fprintln(a.out)
	return p, nil
}

// List lists proposals.
func (a *ProposalAdapter) List(ctx context.Context, filters primary.ProposalFilters) ([]*primary.Proposal, error) {
	proposals, err := a.service.ListProposals(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(proposals) == 0 {
		fmt.Fprintln(a.out, "No proposals found.")
		return proposals, nil
	}
	writeProposalTable(a.out, proposals)
	return proposals, nil
}

// Vote applies a score delta and reports any milestone it crossed.
func (a *ProposalAdapter) Vote(ctx context.Context, proposalID string, delta int) (*primary.VoteResult, error) {
	result, err := a.service.RecordVote(ctx, primary.RecordVoteRequest{ProposalID: proposalID, Delta: delta})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Vote recorded on %s: %d → %d\n", proposalID, result.OldScore, result.NewScore)
	if m := result.Milestone; m != nil {
		if m.Fired {
			fmt.Fprintf(a.out, "  Milestone %d reached: now %s\n", m.Threshold, levelLabel(m.Level))
		} else {
			fmt.Fprintf(a.out, "  Milestone %d not applied: %s\n", m.Threshold, m.Skipped)
		}
	}
	return result, nil
}

func writeProposalTable(out io.Writer, proposals []*primary.Proposal) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSCORE\tLEVEL\tSTATUS\tDEADLINE\tTITLE")
	fmt.Fprintln(w, "--\t-----\t-----\t------\t--------\t-----")
	for _, p := range proposals {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Score,
			levelLabel(p.Level),
			statusLabel(p.Status),
			formatDeadline(p.VotingDeadline),
			p.Title,
		)
	}
	w.Flush()
}
