package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/agenda/internal/ports/primary"
	"github.com/example/agenda/internal/wire"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Department review of DEPT_AGENDA proposals",
}

var reviewSubmitCmd = &cobra.Command{
	Use:   "submit [proposal-id] [action]",
	Short: "Record a review decision",
	Long: `Record a supervisor decision on a DEPT_AGENDA proposal.

Actions:
  approve_as_dept_agenda   keep it as a department agenda item
  escalate_to_facility     send it to FACILITY_AGENDA
  reject                   archive it`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := proposalIDs.check(args[0]); err != nil {
			return err
		}
		reviewer, err := actorFlag(cmd, "reviewer")
		if err != nil {
			return err
		}
		reason, _ := cmd.Flags().GetString("reason")
		comment, _ := cmd.Flags().GetString("comment")

		_, err = wire.ReviewAdapter().Submit(NewContext(), primary.ReviewRequest{
			ProposalID: args[0],
			Action:     args[1],
			Reason:     reason,
			Comment:    comment,
			ReviewerID: reviewer,
		})
		return err
	},
}

var reviewPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List DEPT_AGENDA proposals awaiting review",
	RunE: func(cmd *cobra.Command, args []string) error {
		minScore, _ := cmd.Flags().GetInt("min-score")
		department, _ := cmd.Flags().GetString("department")
		facility, _ := cmd.Flags().GetString("facility")

		_, err := wire.ReviewAdapter().Pending(NewContext(), primary.PendingReviewFilters{
			MinScore:   minScore,
			Department: department,
			FacilityID: facility,
		})
		return err
	},
}

func init() {
	reviewSubmitCmd.Flags().String("reviewer", "", "Reviewing user ID")
	reviewSubmitCmd.Flags().StringP("reason", "r", "", "Reason for the decision (required)")
	reviewSubmitCmd.Flags().StringP("comment", "c", "", "Optional comment")
	reviewSubmitCmd.MarkFlagRequired("reason")

	reviewPendingCmd.Flags().Int("min-score", 0, "Minimum score (default 50)")
	reviewPendingCmd.Flags().StringP("department", "d", "", "Filter by department")
	reviewPendingCmd.Flags().StringP("facility", "f", "", "Filter by facility")

	reviewCmd.AddCommand(reviewSubmitCmd)
	reviewCmd.AddCommand(reviewPendingCmd)
}

// ReviewCmd returns the review command
func ReviewCmd() *cobra.Command {
	return reviewCmd
}
